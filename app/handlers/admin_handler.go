// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	businessflow "github.com/andinotravel/reservas/business_flow"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdminHandlerInterface defines the contract for admin handlers
type AdminHandlerInterface interface {
	RuleValue(c fiber.Ctx) error
	ListRules(c fiber.Ctx) error
	GetConfigEntry(c fiber.Ctx) error
	ListConfigEntries(c fiber.Ctx) error
	DownloadRescheduleReport(c fiber.Ctx) error
}

// AdminHandler handles rule introspection and reporting HTTP requests
type AdminHandler struct {
	ruleFlow   businessflow.RescheduleFlow
	configFlow businessflow.GlobalConfigFlow
	reportFlow businessflow.AdminReportFlow
	validator  *validator.Validate
}

func (h *AdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(ruleFlow businessflow.RescheduleFlow, configFlow businessflow.GlobalConfigFlow, reportFlow businessflow.AdminReportFlow) *AdminHandler {
	return &AdminHandler{
		ruleFlow:   ruleFlow,
		configFlow: configFlow,
		reportFlow: reportFlow,
		validator:  validator.New(),
	}
}

// Rule Value
// @Description Resolve the effective typed value of a reprogramming rule kind for a role.
// @Tags Admin
// @Produce json
// @Param kind query string true "Rule kind"
// @Param role query string false "Customer role, defaults to the wildcard"
// @Success 200 {object} dto.APIResponse{data=dto.RuleValueResponse} "Rule value resolved successfully"
// @Failure 400 {object} dto.APIResponse "Unknown rule kind"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/rules/value [get]
func (h *AdminHandler) RuleValue(c fiber.Ctx) error {
	var req dto.RuleValueRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	kind := models.RuleKind(req.Kind)
	if !kind.Valid() {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown rule kind", "UNKNOWN_RULE_KIND", req.Kind)
	}
	role := models.CustomerRole(req.Role)
	if req.Role == "" {
		role = models.RoleAll
	}

	result, err := h.ruleFlow.RuleValueFor(h.createRequestContext(c, "/api/v1/admin/rules/value"), kind, role)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve rule value", "RULE_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rule value resolved successfully", result)
}

// List Rules
// @Description List all active reprogramming rules with their typed values.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListRulesResponse} "Rules retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/rules [get]
func (h *AdminHandler) ListRules(c fiber.Ctx) error {
	result, err := h.ruleFlow.ListRules(h.createRequestContext(c, "/api/v1/admin/rules"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list rules", "RULE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Rules retrieved successfully", result)
}

// Get Config Entry
// @Description Resolve one active global configuration entry with its decoded value.
// @Tags Admin
// @Produce json
// @Param key path string true "Config key"
// @Success 200 {object} dto.APIResponse{data=dto.ConfigEntryDTO} "Config entry retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Config entry not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/config/{key} [get]
func (h *AdminHandler) GetConfigEntry(c fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Config key is required", "MISSING_CONFIG_KEY", nil)
	}

	result, err := h.configFlow.GetEntry(h.createRequestContext(c, "/api/v1/admin/config/:key"), key)
	if err != nil {
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "CONFIG_NOT_FOUND" {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Config entry not found", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load config entry", "CONFIG_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Config entry retrieved successfully", result)
}

// List Config Entries
// @Description List all active global configuration entries.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListConfigEntriesResponse} "Config entries retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/config [get]
func (h *AdminHandler) ListConfigEntries(c fiber.Ctx) error {
	result, err := h.configFlow.ListEntries(h.createRequestContext(c, "/api/v1/admin/config"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list config entries", "CONFIG_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Config entries retrieved successfully", result)
}

// Download Reschedule Report
// @Description Download an XLSX report of reschedule history rows within an optional date range.
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Range start (RFC 3339)"
// @Param to query string false "Range end (RFC 3339)"
// @Success 200 {string} string "XLSX file"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/reports/reschedules.xlsx [get]
func (h *AdminHandler) DownloadRescheduleReport(c fiber.Ctx) error {
	var req dto.RescheduleReportRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	filename, data, err := h.reportFlow.RescheduleReportXLSX(h.createRequestContext(c, "/api/v1/admin/reports/reschedules.xlsx"), &req)
	if err != nil {
		log.Println("Reschedule report generation failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", "REPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

func (h *AdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
