// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	businessflow "github.com/andinotravel/reservas/business_flow"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// RescheduleHandlerInterface defines the contract for reschedule handlers
type RescheduleHandlerInterface interface {
	Reschedule(c fiber.Ctx) error
	ListHistory(c fiber.Ctx) error
}

// RescheduleHandler handles reservation reprogramming HTTP requests
type RescheduleHandler struct {
	flow      businessflow.RescheduleFlow
	validator *validator.Validate
}

func (h *RescheduleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *RescheduleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewRescheduleHandler creates a new reschedule handler
func NewRescheduleHandler(flow businessflow.RescheduleFlow) *RescheduleHandler {
	return &RescheduleHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Reschedule Reservation
// @Description Evaluate the reprogramming policy for a reservation and apply the date change when every rule accepts it.
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path integer true "Reservation ID"
// @Param request body dto.RescheduleRequest true "New start date and optional reason"
// @Success 200 {object} dto.APIResponse{data=dto.RescheduleResponse} "Reservation rescheduled successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized - customer not found or inactive"
// @Failure 404 {object} dto.APIResponse "Reservation not found"
// @Failure 409 {object} dto.APIResponse "Concurrent reschedule detected"
// @Failure 422 {object} dto.APIResponse "Rejected by a reprogramming rule"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reservations/{id}/reschedule [post]
func (h *RescheduleHandler) Reschedule(c fiber.Ctx) error {
	reservationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid reservation ID", "INVALID_RESERVATION_ID", nil)
	}

	var req dto.RescheduleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ReservationID = uint(reservationID)

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	role, _ := c.Locals("role").(string)
	if role == "" {
		role = string(models.RoleClient)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.EvaluateReschedule(h.createRequestContext(c, "/api/v1/reservations/:id/reschedule"), &req, customerID, models.CustomerRole(role), metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if businessflow.IsReservationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Reservation not found", "RESERVATION_NOT_FOUND", nil)
		}
		if businessflow.IsConcurrencyConflict(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Reservation was modified concurrently, retry the request", "CONCURRENT_RESCHEDULE", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			if strings.HasPrefix(be.Code, "RESCHEDULE_REJECTED_") {
				return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, be.Message, be.Code, nil)
			}
			switch be.Code {
			case "RESERVATION_NOT_OWNED":
				return h.ErrorResponse(c, fiber.StatusForbidden, "Reservation belongs to another customer", be.Code, nil)
			case "RESERVATION_NOT_MOVABLE":
				return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Reservation status does not allow rescheduling", be.Code, nil)
			case "ACCOUNT_INACTIVE":
				return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reschedule reservation", "RESCHEDULE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reservation rescheduled successfully", result)
}

// ListHistory Reschedules
// @Description List the reprogramming history of a reservation, newest first.
// @Tags Reservations
// @Produce json
// @Param id path integer true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListRescheduleHistoryResponse} "History retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid reservation ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reservations/{id}/reschedules [get]
func (h *RescheduleHandler) ListHistory(c fiber.Ctx) error {
	reservationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid reservation ID", "INVALID_RESERVATION_ID", nil)
	}

	if _, ok := c.Locals("customer_id").(uint); !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	result, err := h.flow.ListHistory(h.createRequestContext(c, "/api/v1/reservations/:id/reschedules"), uint(reservationID))
	if err != nil {
		if businessflow.IsReservationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Reservation not found", "RESERVATION_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list reschedule history", "HISTORY_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reschedule history retrieved successfully", result)
}

func (h *RescheduleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *RescheduleHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
