package dto

// CreateSupportTicketRequest carries a new support ticket
// Type must be one of CONSULTA, INCIDENCIA, REPROGRAMACION
type CreateSupportTicketRequest struct {
	CustomerID    uint   `json:"customer_id"`
	Type          string `json:"type" validate:"required,oneof=CONSULTA INCIDENCIA REPROGRAMACION"`
	Subject       string `json:"subject" validate:"required,max=255"`
	Description   string `json:"description" validate:"required,max=2000"`
	ReservationID *uint  `json:"reservation_id,omitempty"`
}

// SupportTicketItem represents a ticket row in responses
type SupportTicketItem struct {
	ID              uint   `json:"id"`
	TicketNumber    string `json:"ticket_number"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	Subject         string `json:"subject"`
	CustomerID      uint   `json:"customer_id"`
	ReservationID   *uint  `json:"reservation_id,omitempty"`
	AssignedAgentID *uint  `json:"assigned_agent_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// CreateSupportTicketResponse returns the created ticket
type CreateSupportTicketResponse struct {
	Message string            `json:"message"`
	Ticket  SupportTicketItem `json:"ticket"`
}

// AddSupportMessageRequest carries a new message on an existing ticket
type AddSupportMessageRequest struct {
	TicketID   uint   `json:"-"`
	SenderID   uint   `json:"sender_id"`
	Content    string `json:"content" validate:"required,max=2000"`
	FromClient bool   `json:"from_client"`
}

// SupportMessageItem represents a message row in responses
type SupportMessageItem struct {
	ID         uint   `json:"id"`
	TicketID   uint   `json:"ticket_id"`
	SenderID   uint   `json:"sender_id"`
	Content    string `json:"content"`
	FromClient bool   `json:"from_client"`
	CreatedAt  string `json:"created_at"`
}

// AddSupportMessageResponse returns the stored message and ticket status
type AddSupportMessageResponse struct {
	Message      string             `json:"message"`
	TicketStatus string             `json:"ticket_status"`
	Item         SupportMessageItem `json:"item"`
}

// ListSupportTicketsRequest filters for listing tickets
type ListSupportTicketsRequest struct {
	CustomerID uint    `json:"customer_id"`
	Status     *string `json:"status,omitempty" query:"status"`
	Page       uint    `json:"page,omitempty" query:"page"`
	PageSize   uint    `json:"page_size,omitempty" query:"page_size"`
}

// ListSupportTicketsResponse returns tickets with their messages counts
type ListSupportTicketsResponse struct {
	Items []SupportTicketItem `json:"items"`
	Total int                 `json:"total"`
}

// ResolveSupportTicketRequest closes out a ticket
type ResolveSupportTicketRequest struct {
	TicketID   uint   `json:"-"`
	AgentID    uint   `json:"agent_id"`
	Resolution string `json:"resolution" validate:"omitempty,max=2000"`
}

// ResolveSupportTicketResponse returns the resolved ticket
type ResolveSupportTicketResponse struct {
	Message string            `json:"message"`
	Ticket  SupportTicketItem `json:"ticket"`
}
