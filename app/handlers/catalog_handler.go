// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	businessflow "github.com/andinotravel/reservas/business_flow"
	"github.com/andinotravel/reservas/utils"
	"github.com/gofiber/fiber/v3"
)

// CatalogHandlerInterface defines the contract for catalog handlers
type CatalogHandlerInterface interface {
	ListCategories(c fiber.Ctx) error
	ListServices(c fiber.Ctx) error
	GetService(c fiber.Ctx) error
	ListTourPackages(c fiber.Ctx) error
	GetTourPackage(c fiber.Ctx) error
}

// CatalogHandler handles public catalog HTTP requests
type CatalogHandler struct {
	flow businessflow.CatalogFlow
}

func (h *CatalogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CatalogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(flow businessflow.CatalogFlow) *CatalogHandler {
	return &CatalogHandler{flow: flow}
}

func parseCategoryID(c fiber.Ctx) (*uint, bool) {
	v := c.Query("category_id")
	if v == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil, false
	}
	out := uint(id)
	return &out, true
}

// List Categories
// @Description List all catalog categories.
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListCategoriesResponse} "Categories retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c fiber.Ctx) error {
	result, err := h.flow.ListCategories(h.createRequestContext(c, "/api/v1/categories"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list categories", "CATEGORY_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Categories retrieved successfully", result)
}

// List Services
// @Description List publicly visible services, optionally filtered by category.
// @Tags Catalog
// @Produce json
// @Param category_id query integer false "Category ID"
// @Param page query integer false "Page number"
// @Param page_size query integer false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListServicesResponse} "Services retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid category ID"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/services [get]
func (h *CatalogHandler) ListServices(c fiber.Ctx) error {
	categoryID, ok := parseCategoryID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_CATEGORY_ID", nil)
	}
	page, _ := strconv.ParseUint(c.Query("page"), 10, 32)
	pageSize, _ := strconv.ParseUint(c.Query("page_size"), 10, 32)

	result, err := h.flow.ListServices(h.createRequestContext(c, "/api/v1/services"), categoryID, uint(page), uint(pageSize))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list services", "SERVICE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Services retrieved successfully", result)
}

// Get Service
// @Description Retrieve a publicly visible service by ID.
// @Tags Catalog
// @Produce json
// @Param id path integer true "Service ID"
// @Success 200 {object} dto.APIResponse{data=dto.ServiceDTO} "Service retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid service ID"
// @Failure 404 {object} dto.APIResponse "Service not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/services/{id} [get]
func (h *CatalogHandler) GetService(c fiber.Ctx) error {
	serviceID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid service ID", "INVALID_SERVICE_ID", nil)
	}

	result, err := h.flow.GetService(h.createRequestContext(c, "/api/v1/services/:id"), uint(serviceID))
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "SERVICE_NOT_FOUND" {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Service not found", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve service", "SERVICE_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Service retrieved successfully", result)
}

// List Tour Packages
// @Description List tour packages with their services, optionally filtered by category.
// @Tags Catalog
// @Produce json
// @Param category_id query integer false "Category ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListTourPackagesResponse} "Packages retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid category ID"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/packages [get]
func (h *CatalogHandler) ListTourPackages(c fiber.Ctx) error {
	categoryID, ok := parseCategoryID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_CATEGORY_ID", nil)
	}

	result, err := h.flow.ListTourPackages(h.createRequestContext(c, "/api/v1/packages"), categoryID)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list packages", "PACKAGE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Packages retrieved successfully", result)
}

// Get Tour Package
// @Description Retrieve a tour package by ID.
// @Tags Catalog
// @Produce json
// @Param id path integer true "Package ID"
// @Success 200 {object} dto.APIResponse{data=dto.TourPackageDTO} "Package retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid package ID"
// @Failure 404 {object} dto.APIResponse "Package not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/packages/{id} [get]
func (h *CatalogHandler) GetTourPackage(c fiber.Ctx) error {
	packageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid package ID", "INVALID_PACKAGE_ID", nil)
	}

	result, err := h.flow.GetTourPackage(h.createRequestContext(c, "/api/v1/packages/:id"), uint(packageID))
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "PACKAGE_NOT_FOUND" {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Package not found", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve package", "PACKAGE_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Package retrieved successfully", result)
}

func (h *CatalogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CatalogHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
