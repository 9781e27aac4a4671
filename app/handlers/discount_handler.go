// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	businessflow "github.com/andinotravel/reservas/business_flow"
	"github.com/andinotravel/reservas/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// DiscountHandlerInterface defines the contract for discount assignment handlers
type DiscountHandlerInterface interface {
	Assign(c fiber.Ctx) error
	UpdateAssignment(c fiber.Ctx) error
	ListAssignments(c fiber.Ctx) error
	ListDiscounts(c fiber.Ctx) error
}

// DiscountHandler handles discount assignment HTTP requests
type DiscountHandler struct {
	flow      businessflow.DiscountFlow
	validator *validator.Validate
}

func (h *DiscountHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DiscountHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(flow businessflow.DiscountFlow) *DiscountHandler {
	return &DiscountHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Assign Discount
// @Description Assign a discount to a service, enforcing exclusivity against overlapping exclusive assignments.
// @Tags Discounts
// @Accept json
// @Produce json
// @Param request body dto.AssignDiscountRequest true "Service, discount and assignment flags"
// @Success 201 {object} dto.APIResponse{data=dto.DiscountAssignmentResponse} "Discount assigned successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 404 {object} dto.APIResponse "Service or discount not found"
// @Failure 422 {object} dto.APIResponse "Exclusive discount conflict"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/discount-assignments [post]
func (h *DiscountHandler) Assign(c fiber.Ctx) error {
	var req dto.AssignDiscountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.AssignDiscount(h.createRequestContext(c, "/api/v1/discount-assignments"), &req, metadata)
	if err != nil {
		if businessflow.IsExclusiveDiscountConflict(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "An exclusive discount already covers an overlapping period for this service", "EXCLUSIVE_DISCOUNT_CONFLICT", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "SERVICE_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Service not found", be.Code, nil)
			case "DISCOUNT_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Discount not found", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to assign discount", "ASSIGN_DISCOUNT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Discount assigned successfully", result)
}

// Update Discount Assignment
// @Description Update an existing discount assignment, revalidating exclusivity when flags or discount change.
// @Tags Discounts
// @Accept json
// @Produce json
// @Param id path integer true "Assignment ID"
// @Param request body dto.UpdateDiscountAssignmentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.DiscountAssignmentResponse} "Assignment updated successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 404 {object} dto.APIResponse "Assignment not found"
// @Failure 422 {object} dto.APIResponse "Exclusive discount conflict"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/discount-assignments/{id} [put]
func (h *DiscountHandler) UpdateAssignment(c fiber.Ctx) error {
	assignmentID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid assignment ID", "INVALID_ASSIGNMENT_ID", nil)
	}

	var req dto.UpdateDiscountAssignmentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AssignmentID = uint(assignmentID)

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.UpdateAssignment(h.createRequestContext(c, "/api/v1/discount-assignments/:id"), &req, metadata)
	if err != nil {
		if businessflow.IsExclusiveDiscountConflict(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "An exclusive discount already covers an overlapping period for this service", "EXCLUSIVE_DISCOUNT_CONFLICT", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "ASSIGNMENT_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Assignment not found", be.Code, nil)
			case "DISCOUNT_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Discount not found", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update assignment", "UPDATE_ASSIGNMENT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Assignment updated successfully", result)
}

// List Discount Assignments
// @Description List the active discount assignments of a service.
// @Tags Discounts
// @Produce json
// @Param service_id query integer true "Service ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListDiscountAssignmentsResponse} "Assignments retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid service ID"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/discount-assignments [get]
func (h *DiscountHandler) ListAssignments(c fiber.Ctx) error {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 32)
	if err != nil || serviceID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid service ID", "INVALID_SERVICE_ID", nil)
	}

	result, err := h.flow.ListAssignments(h.createRequestContext(c, "/api/v1/discount-assignments"), uint(serviceID))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list assignments", "ASSIGNMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Assignments retrieved successfully", result)
}

// List Discounts
// @Description List all discounts.
// @Tags Discounts
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListDiscountsResponse} "Discounts retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/discounts [get]
func (h *DiscountHandler) ListDiscounts(c fiber.Ctx) error {
	result, err := h.flow.ListDiscounts(h.createRequestContext(c, "/api/v1/discounts"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list discounts", "DISCOUNT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Discounts retrieved successfully", result)
}

func (h *DiscountHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *DiscountHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
