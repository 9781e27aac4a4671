// Package models contains domain entities and business models for the reservation platform
package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CustomerID   *uint           `gorm:"index:idx_audit_customer_id" json:"customer_id,omitempty"`
	Customer     *Customer       `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Action       string          `gorm:"type:varchar(100);not null;index:idx_audit_action" json:"action"`
	Entity       *string         `gorm:"type:varchar(100)" json:"entity,omitempty"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionReservationCreated   = "reservation_created"
	AuditActionReservationCancelled = "reservation_cancelled"
	AuditActionRescheduleAccepted   = "reschedule_accepted"
	AuditActionRescheduleRejected   = "reschedule_rejected"
	AuditActionRescheduleFailed     = "reschedule_failed"
	AuditActionDiscountAssigned     = "discount_assigned"
	AuditActionDiscountConflict     = "discount_conflict"
	AuditActionTicketCreated        = "ticket_created"
	AuditActionTicketMessageAdded   = "ticket_message_added"
	AuditActionTicketStatusChanged  = "ticket_status_changed"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	CustomerID    *uint
	Action        *string
	Success       *bool
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
