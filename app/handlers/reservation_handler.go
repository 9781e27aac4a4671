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

// ReservationHandlerInterface defines the contract for reservation handlers
type ReservationHandlerInterface interface {
	Create(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Cancel(c fiber.Ctx) error
}

// ReservationHandler handles reservation HTTP requests
type ReservationHandler struct {
	flow      businessflow.ReservationFlow
	validator *validator.Validate
}

func (h *ReservationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ReservationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(flow businessflow.ReservationFlow) *ReservationHandler {
	return &ReservationHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Reservation
// @Description Create a reservation with service lines, optional companions and an optional coupon.
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} dto.APIResponse{data=dto.CreateReservationResponse} "Reservation created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized - customer not found or inactive"
// @Failure 404 {object} dto.APIResponse "Service or coupon not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reservations [post]
func (h *ReservationHandler) Create(c fiber.Ctx) error {
	var req dto.CreateReservationRequest
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

	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.CustomerID = customerID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.CreateReservation(h.createRequestContext(c, "/api/v1/reservations"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "ACCOUNT_INACTIVE":
				return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", be.Code, nil)
			case "EMPTY_RESERVATION":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Reservation needs at least one service", be.Code, nil)
			case "SERVICE_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Service not found", be.Code, be.Error())
			case "COUPON_NOT_FOUND":
				return h.ErrorResponse(c, fiber.StatusNotFound, "Coupon not found", be.Code, nil)
			case "COUPON_NOT_VALID":
				return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Coupon is not valid for the reservation date", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create reservation", "RESERVATION_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Reservation created successfully", result)
}

// Get Reservation
// @Description Retrieve one reservation owned by the authenticated customer.
// @Tags Reservations
// @Produce json
// @Param id path integer true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReservationDTO} "Reservation retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid reservation ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Reservation not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reservations/{id} [get]
func (h *ReservationHandler) Get(c fiber.Ctx) error {
	reservationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid reservation ID", "INVALID_RESERVATION_ID", nil)
	}

	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	result, err := h.flow.GetReservation(h.createRequestContext(c, "/api/v1/reservations/:id"), uint(reservationID), customerID)
	if err != nil {
		if businessflow.IsReservationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Reservation not found", "RESERVATION_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "RESERVATION_NOT_OWNED" {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Reservation belongs to another customer", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve reservation", "RESERVATION_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reservation retrieved successfully", result)
}

// List Reservations
// @Description List the authenticated customer's reservations, newest first.
// @Tags Reservations
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query integer false "Page number"
// @Param page_size query integer false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListReservationsResponse} "Reservations retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reservations [get]
func (h *ReservationHandler) List(c fiber.Ctx) error {
	var req dto.ListReservationsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.CustomerID = customerID

	result, err := h.flow.ListReservations(h.createRequestContext(c, "/api/v1/reservations"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list reservations", "RESERVATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reservations retrieved successfully", result)
}

// Cancel Reservation
// @Description Cancel a reservation owned by the authenticated customer.
// @Tags Reservations
// @Produce json
// @Param id path integer true "Reservation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReservationDTO} "Reservation cancelled successfully"
// @Failure 400 {object} dto.APIResponse "Invalid reservation ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Reservation not found"
// @Failure 422 {object} dto.APIResponse "Reservation status does not allow cancellation"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c fiber.Ctx) error {
	reservationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid reservation ID", "INVALID_RESERVATION_ID", nil)
	}

	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.CancelReservation(h.createRequestContext(c, "/api/v1/reservations/:id/cancel"), uint(reservationID), customerID, metadata)
	if err != nil {
		if businessflow.IsReservationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Reservation not found", "RESERVATION_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "RESERVATION_NOT_OWNED":
				return h.ErrorResponse(c, fiber.StatusForbidden, "Reservation belongs to another customer", be.Code, nil)
			case "RESERVATION_NOT_CANCELABLE":
				return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Reservation status does not allow cancellation", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to cancel reservation", "RESERVATION_CANCEL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Reservation cancelled successfully", result)
}

func (h *ReservationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *ReservationHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
