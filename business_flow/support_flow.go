package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/app/services"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
	"github.com/andinotravel/reservas/utils"
)

// SupportFlow manages support tickets and their conversation threads
type SupportFlow interface {
	CreateTicket(ctx context.Context, req *dto.CreateSupportTicketRequest, metadata *ClientMetadata) (*dto.CreateSupportTicketResponse, error)
	AddMessage(ctx context.Context, req *dto.AddSupportMessageRequest, metadata *ClientMetadata) (*dto.AddSupportMessageResponse, error)
	ListTickets(ctx context.Context, req *dto.ListSupportTicketsRequest) (*dto.ListSupportTicketsResponse, error)
	ResolveTicket(ctx context.Context, req *dto.ResolveSupportTicketRequest, metadata *ClientMetadata) (*dto.ResolveSupportTicketResponse, error)
}

// SupportFlowImpl implements SupportFlow
type SupportFlowImpl struct {
	ticketRepo      repository.SupportTicketRepository
	messageRepo     repository.SupportMessageRepository
	configRepo      repository.SupportConfigRepository
	customerRepo    repository.CustomerRepository
	reservationRepo repository.ReservationRepository
	auditRepo       repository.AuditLogRepository
	tx              repository.TxManager
	notifier        services.NotificationService
	clock           Clock
}

func NewSupportFlow(
	ticketRepo repository.SupportTicketRepository,
	messageRepo repository.SupportMessageRepository,
	configRepo repository.SupportConfigRepository,
	customerRepo repository.CustomerRepository,
	reservationRepo repository.ReservationRepository,
	auditRepo repository.AuditLogRepository,
	tx repository.TxManager,
	notifier services.NotificationService,
	clock Clock,
) SupportFlow {
	if clock == nil {
		clock = SystemClock
	}
	return &SupportFlowImpl{
		ticketRepo:      ticketRepo,
		messageRepo:     messageRepo,
		configRepo:      configRepo,
		customerRepo:    customerRepo,
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		tx:              tx,
		notifier:        notifier,
		clock:           clock,
	}
}

// CreateTicket creates a support ticket with three explicit side effects in
// order: priority derivation, agent auto-assignment, customer notification.
// Only the ticket write itself is transactional; notification is best-effort.
func (f *SupportFlowImpl) CreateTicket(ctx context.Context, req *dto.CreateSupportTicketRequest, metadata *ClientMetadata) (*dto.CreateSupportTicketResponse, error) {
	customer, err := f.customerRepo.ByID(ctx, req.CustomerID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to load customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "Customer not found", ErrCustomerNotFound)
	}

	ticketType := models.TicketType(req.Type)
	if !ticketType.Valid() {
		ticketType = models.TicketTypeInquiry
	}

	ticket := &models.SupportTicket{
		CustomerID:    req.CustomerID,
		ReservationID: req.ReservationID,
		Type:          ticketType,
		Status:        models.TicketStatusPending,
		Priority:      models.TicketPriorityMedium,
		Subject:       req.Subject,
		Description:   req.Description,
	}

	// Reschedule requests for reservations starting soon are urgent.
	if ticketType == models.TicketTypeReschedule && req.ReservationID != nil {
		reservation, err := f.reservationRepo.ByID(ctx, *req.ReservationID)
		if err != nil {
			return nil, NewBusinessError("RESERVATION_LOOKUP_FAILED", "Failed to load linked reservation", err)
		}
		if reservation != nil && reservation.StartDate.Sub(f.clock()) <= utils.UrgentRescheduleWindow {
			ticket.Priority = models.TicketPriorityHigh
		}
	}

	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("SUPPORT_CONFIG_FAILED", "Failed to load support configuration", err)
	}

	if cfg == nil || cfg.AutoAssign == nil || *cfg.AutoAssign {
		maxPerAgent := utils.DefaultMaxTicketsPerAgent
		if cfg != nil && cfg.MaxTicketsPerAgent > 0 {
			maxPerAgent = cfg.MaxTicketsPerAgent
		}
		agentID, err := f.leastLoadedAgent(ctx, maxPerAgent)
		if err != nil {
			return nil, err
		}
		ticket.AssignedAgentID = agentID
	}

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		if err := f.ticketRepo.Save(txCtx, ticket); err != nil {
			return NewBusinessError("TICKET_CREATE_FAILED", "Failed to create ticket", err)
		}
		number := fmt.Sprintf("TCK-%s-%05d", f.clock().Format("20060102"), ticket.ID)
		ticket.TicketNumber = &number
		if err := f.ticketRepo.Update(txCtx, ticket); err != nil {
			return NewBusinessError("TICKET_CREATE_FAILED", "Failed to number ticket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ticketsCreated.WithLabelValues(string(ticket.Type), string(ticket.Priority)).Inc()
	f.auditTicket(ctx, models.AuditActionTicketCreated, ticket, metadata)

	if cfg == nil || cfg.EmailClient == nil || *cfg.EmailClient {
		subject := fmt.Sprintf("Ticket %s recibido", *ticket.TicketNumber)
		body := fmt.Sprintf("Hola %s, recibimos tu solicitud %q. Te responderemos pronto.",
			customer.FullName(), ticket.Subject)
		if err := f.notifier.SendEmail(customer.Email, subject, body); err != nil {
			log.Printf("failed to send ticket confirmation for %s: %v", *ticket.TicketNumber, err)
		}
	}

	return &dto.CreateSupportTicketResponse{
		Message: "Ticket created",
		Ticket:  ToSupportTicketItem(*ticket),
	}, nil
}

// leastLoadedAgent picks the active support agent with the fewest open
// tickets, skipping agents at the cap. Returns nil when nobody has capacity.
func (f *SupportFlowImpl) leastLoadedAgent(ctx context.Context, maxPerAgent int) (*uint, error) {
	agents, err := f.customerRepo.ListActiveByRole(ctx, models.RoleSupport)
	if err != nil {
		return nil, NewBusinessError("AGENT_LOOKUP_FAILED", "Failed to list support agents", err)
	}

	var best *uint
	bestLoad := int64(maxPerAgent)
	for _, agent := range agents {
		load, err := f.ticketRepo.CountOpenByAgent(ctx, agent.ID)
		if err != nil {
			return nil, NewBusinessError("AGENT_LOOKUP_FAILED", "Failed to count agent load", err)
		}
		if load < bestLoad {
			id := agent.ID
			best = &id
			bestLoad = load
		}
	}
	return best, nil
}

// AddMessage appends a message to a ticket's thread. A customer reply moves a
// waiting ticket back to in-progress; the first agent reply stamps the
// first-response time.
func (f *SupportFlowImpl) AddMessage(ctx context.Context, req *dto.AddSupportMessageRequest, metadata *ClientMetadata) (*dto.AddSupportMessageResponse, error) {
	ticket, err := f.ticketRepo.ByID(ctx, req.TicketID)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to load ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, NewBusinessError("TICKET_CLOSED", "Ticket is closed", ErrTicketClosed)
	}

	message := &models.SupportMessage{
		TicketID:   ticket.ID,
		SenderID:   req.SenderID,
		Message:    req.Content,
		FromClient: req.FromClient,
	}

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		if err := f.messageRepo.Save(txCtx, message); err != nil {
			return NewBusinessError("MESSAGE_CREATE_FAILED", "Failed to store message", err)
		}

		changed := false
		if req.FromClient && ticket.Status == models.TicketStatusAwaitingClient {
			ticket.Status = models.TicketStatusInProgress
			changed = true
		}
		if !req.FromClient {
			if ticket.FirstResponseAt == nil {
				now := f.clock()
				ticket.FirstResponseAt = &now
				changed = true
			}
			if ticket.Status == models.TicketStatusPending {
				ticket.Status = models.TicketStatusInProgress
				changed = true
			}
		}
		if changed {
			if err := f.ticketRepo.Update(txCtx, ticket); err != nil {
				return NewBusinessError("TICKET_UPDATE_FAILED", "Failed to update ticket status", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.auditTicket(ctx, models.AuditActionTicketMessageAdded, ticket, metadata)

	return &dto.AddSupportMessageResponse{
		Message:      "Message stored",
		TicketStatus: string(ticket.Status),
		Item: dto.SupportMessageItem{
			ID:         message.ID,
			TicketID:   message.TicketID,
			SenderID:   message.SenderID,
			Content:    message.Message,
			FromClient: message.FromClient,
			CreatedAt:  message.CreatedAt.Format(time.RFC3339),
		},
	}, nil
}

// ListTickets returns a customer's tickets, optionally by status
func (f *SupportFlowImpl) ListTickets(ctx context.Context, req *dto.ListSupportTicketsRequest) (*dto.ListSupportTicketsResponse, error) {
	filter := models.SupportTicketFilter{CustomerID: &req.CustomerID}
	if req.Status != nil && *req.Status != "" {
		status := models.TicketStatus(*req.Status)
		filter.Status = &status
	}

	pageSize := int(req.PageSize)
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := 0
	if req.Page > 1 {
		offset = (int(req.Page) - 1) * pageSize
	}

	rows, err := f.ticketRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("TICKET_LIST_FAILED", "Failed to list tickets", err)
	}

	out := &dto.ListSupportTicketsResponse{Items: make([]dto.SupportTicketItem, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, ToSupportTicketItem(*row))
	}
	out.Total = len(out.Items)
	return out, nil
}

// ResolveTicket marks a ticket resolved, recording the resolution time
func (f *SupportFlowImpl) ResolveTicket(ctx context.Context, req *dto.ResolveSupportTicketRequest, metadata *ClientMetadata) (*dto.ResolveSupportTicketResponse, error) {
	ticket, err := f.ticketRepo.ByID(ctx, req.TicketID)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to load ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}
	if !ticket.Status.IsOpen() {
		return nil, NewBusinessError("TICKET_CLOSED", "Ticket is already resolved or closed", ErrTicketClosed)
	}

	now := f.clock()
	ticket.Status = models.TicketStatusResolved
	ticket.ResolvedAt = &now
	hours := now.Sub(ticket.CreatedAt).Hours()
	ticket.ResolutionHours = &hours

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		if req.Resolution != "" {
			message := &models.SupportMessage{
				TicketID:   ticket.ID,
				SenderID:   req.AgentID,
				Message:    req.Resolution,
				FromClient: false,
			}
			if err := f.messageRepo.Save(txCtx, message); err != nil {
				return NewBusinessError("MESSAGE_CREATE_FAILED", "Failed to store resolution", err)
			}
		}
		if err := f.ticketRepo.Update(txCtx, ticket); err != nil {
			return NewBusinessError("TICKET_UPDATE_FAILED", "Failed to resolve ticket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.auditTicket(ctx, models.AuditActionTicketStatusChanged, ticket, metadata)

	return &dto.ResolveSupportTicketResponse{
		Message: "Ticket resolved",
		Ticket:  ToSupportTicketItem(*ticket),
	}, nil
}

func (f *SupportFlowImpl) auditTicket(ctx context.Context, action string, ticket *models.SupportTicket, metadata *ClientMetadata) {
	success := true
	meta, _ := json.Marshal(map[string]any{
		"ticket_id": ticket.ID,
		"status":    string(ticket.Status),
		"priority":  string(ticket.Priority),
	})

	entry := &models.AuditLog{
		CustomerID: &ticket.CustomerID,
		Action:     action,
		Metadata:   meta,
		Success:    &success,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}
	if err := f.auditRepo.Save(ctx, entry); err != nil {
		log.Printf("failed to write ticket audit entry: %v", err)
	}
}
