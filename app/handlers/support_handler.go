// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	businessflow "github.com/andinotravel/reservas/business_flow"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// SupportHandlerInterface defines the contract for support ticket handlers
type SupportHandlerInterface interface {
	Create(c fiber.Ctx) error
	AddMessage(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Resolve(c fiber.Ctx) error
}

// SupportHandler handles support ticket HTTP requests
type SupportHandler struct {
	flow      businessflow.SupportFlow
	validator *validator.Validate
}

func (h *SupportHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SupportHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(flow businessflow.SupportFlow) *SupportHandler {
	return &SupportHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// Create Support Ticket
// @Description Create a support ticket for the authenticated customer. Tickets linked to a reservation starting soon are escalated automatically.
// @Tags Support
// @Accept json
// @Produce json
// @Param request body dto.CreateSupportTicketRequest true "Ticket payload"
// @Success 201 {object} dto.APIResponse{data=dto.CreateSupportTicketResponse} "Ticket created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized - customer not found or inactive"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/support/tickets [post]
func (h *SupportHandler) Create(c fiber.Ctx) error {
	var req dto.CreateSupportTicketRequest
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

	result, err := h.flow.CreateTicket(h.createRequestContext(c, "/api/v1/support/tickets"), &req, metadata)
	if err != nil {
		if businessflow.IsCustomerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer not found", "CUSTOMER_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "ACCOUNT_INACTIVE":
				return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer account is inactive", be.Code, nil)
			}
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create ticket", "TICKET_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Ticket created successfully", result)
}

// Add Ticket Message
// @Description Append a message to an open support ticket. Client replies move waiting tickets back in process.
// @Tags Support
// @Accept json
// @Produce json
// @Param id path integer true "Ticket ID"
// @Param request body dto.AddSupportMessageRequest true "Message content"
// @Success 201 {object} dto.APIResponse{data=dto.AddSupportMessageResponse} "Message added successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Failure 422 {object} dto.APIResponse "Ticket is closed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/support/tickets/{id}/messages [post]
func (h *SupportHandler) AddMessage(c fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	var req dto.AddSupportMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.TicketID = uint(ticketID)

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
	req.SenderID = customerID
	req.FromClient = role == "" || role == string(models.RoleClient)

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.AddMessage(h.createRequestContext(c, "/api/v1/support/tickets/:id/messages"), &req, metadata)
	if err != nil {
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "TICKET_CLOSED" {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Ticket is closed", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add message", "MESSAGE_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Message added successfully", result)
}

// List Support Tickets
// @Description List the authenticated customer's support tickets, newest first.
// @Tags Support
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query integer false "Page number"
// @Param page_size query integer false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListSupportTicketsResponse} "Tickets retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/support/tickets [get]
func (h *SupportHandler) List(c fiber.Ctx) error {
	var req dto.ListSupportTicketsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	customerID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.CustomerID = customerID

	result, err := h.flow.ListTickets(h.createRequestContext(c, "/api/v1/support/tickets"), &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tickets", "TICKET_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tickets retrieved successfully", result)
}

// Resolve Support Ticket
// @Description Mark an open ticket as resolved, recording resolution time. Agent only.
// @Tags Support
// @Accept json
// @Produce json
// @Param id path integer true "Ticket ID"
// @Param request body dto.ResolveSupportTicketRequest false "Optional resolution note"
// @Success 200 {object} dto.APIResponse{data=dto.ResolveSupportTicketResponse} "Ticket resolved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid ticket ID"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Failure 422 {object} dto.APIResponse "Ticket is not open"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/support/tickets/{id}/resolve [post]
func (h *SupportHandler) Resolve(c fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	var req dto.ResolveSupportTicketRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.TicketID = uint(ticketID)

	agentID, ok := c.Locals("customer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Customer ID not found in context", "MISSING_CUSTOMER_ID", nil)
	}
	req.AgentID = agentID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	result, err := h.flow.ResolveTicket(h.createRequestContext(c, "/api/v1/support/tickets/:id/resolve"), &req, metadata)
	if err != nil {
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok && be.Code == "TICKET_CLOSED" {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Ticket is not open", be.Code, nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve ticket", "TICKET_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ticket resolved successfully", result)
}

func (h *SupportHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *SupportHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
