package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// TicketType classifies a support request.
type TicketType string

const (
	TicketTypeInquiry    TicketType = "CONSULTA"
	TicketTypeIncident   TicketType = "INCIDENCIA"
	TicketTypeReschedule TicketType = "REPROGRAMACION"
)

// Valid checks if the ticket type is valid.
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeInquiry, TicketTypeIncident, TicketTypeReschedule:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for TicketType.
func (t *TicketType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = TicketType(v)
	case []byte:
		*t = TicketType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TicketType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for TicketType.
func (t TicketType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid TicketType: %s", t)
	}
	return string(t), nil
}

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketStatusPending        TicketStatus = "PENDIENTE"
	TicketStatusInProgress     TicketStatus = "EN_PROCESO"
	TicketStatusAwaitingClient TicketStatus = "ESPERANDO_CLIENTE"
	TicketStatusResolved       TicketStatus = "RESUELTO"
	TicketStatusClosed         TicketStatus = "CERRADO"
)

// Valid checks if the status is valid.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusAwaitingClient,
		TicketStatusResolved, TicketStatusClosed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for TicketStatus.
func (s *TicketStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = TicketStatus(v)
	case []byte:
		*s = TicketStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TicketStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for TicketStatus.
func (s TicketStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid TicketStatus: %s", s)
	}
	return string(s), nil
}

// IsOpen reports whether the ticket still counts against an agent's load.
func (s TicketStatus) IsOpen() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusAwaitingClient:
		return true
	default:
		return false
	}
}

// TicketPriority orders tickets for support response times.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "BAJA"
	TicketPriorityMedium   TicketPriority = "MEDIA"
	TicketPriorityHigh     TicketPriority = "ALTA"
	TicketPriorityCritical TicketPriority = "CRITICA"
)

// Valid checks if the priority is valid.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for TicketPriority.
func (p *TicketPriority) Scan(value any) error {
	if value == nil {
		*p = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = TicketPriority(v)
	case []byte:
		*p = TicketPriority(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TicketPriority", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for TicketPriority.
func (p TicketPriority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid TicketPriority: %s", p)
	}
	return string(p), nil
}

// SupportTicket is a customer support request, optionally linked to a
// reservation (reschedule requests usually are).
type SupportTicket struct {
	ID              uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketNumber    *string        `gorm:"type:varchar(20);uniqueIndex" json:"ticket_number,omitempty"`
	CustomerID      uint           `gorm:"not null;index" json:"customer_id"`
	ReservationID   *uint          `gorm:"index" json:"reservation_id,omitempty"`
	AssignedAgentID *uint          `gorm:"index" json:"assigned_agent_id,omitempty"`
	Type            TicketType     `gorm:"type:varchar(20);not null;default:'CONSULTA'" json:"type"`
	Status          TicketStatus   `gorm:"type:varchar(20);not null;default:'PENDIENTE';index" json:"status"`
	Priority        TicketPriority `gorm:"type:varchar(10);not null;default:'MEDIA';index" json:"priority"`
	Subject         string         `gorm:"type:varchar(255);not null" json:"subject"`
	Description     string         `gorm:"type:text;not null;default:''" json:"description"`
	FirstResponseAt *time.Time     `json:"first_response_at,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty"`
	ResolutionHours *float64       `json:"resolution_hours,omitempty"`
	Satisfaction    *float64       `json:"satisfaction,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Customer      *Customer    `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnDelete:SET NULL" json:"reservation,omitempty"`
	AssignedAgent *Customer    `gorm:"foreignKey:AssignedAgentID;references:ID;constraint:OnDelete:SET NULL" json:"assigned_agent,omitempty"`
}

func (SupportTicket) TableName() string { return "support_tickets" }

// BeforeCreate normalizes timestamps if zero.
func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// SupportTicketFilter represents filter criteria for ticket queries.
type SupportTicketFilter struct {
	ID              *uint           `json:"id,omitempty"`
	CustomerID      *uint           `json:"customer_id,omitempty"`
	ReservationID   *uint           `json:"reservation_id,omitempty"`
	AssignedAgentID *uint           `json:"assigned_agent_id,omitempty"`
	Type            *TicketType     `json:"type,omitempty"`
	Status          *TicketStatus   `json:"status,omitempty"`
	Priority        *TicketPriority `json:"priority,omitempty"`
	CreatedAfter    *time.Time      `json:"created_after,omitempty"`
	CreatedBefore   *time.Time      `json:"created_before,omitempty"`
}
