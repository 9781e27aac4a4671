package models

import (
	"time"

	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// SupportMessage is one message in a ticket's conversation thread.
type SupportMessage struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketID   uint   `gorm:"not null;index" json:"ticket_id"`
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	Message    string `gorm:"type:text;not null" json:"message"`
	FromClient bool   `gorm:"not null;default:false" json:"from_client"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`

	Ticket *SupportTicket `gorm:"foreignKey:TicketID;references:ID;constraint:OnDelete:CASCADE" json:"ticket,omitempty"`
	Sender *Customer      `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
}

func (SupportMessage) TableName() string { return "support_messages" }

// BeforeCreate normalizes the timestamp if zero.
func (m *SupportMessage) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	return nil
}

// SupportMessageFilter represents filter criteria for message queries.
type SupportMessageFilter struct {
	ID       *uint `json:"id,omitempty"`
	TicketID *uint `json:"ticket_id,omitempty"`
	SenderID *uint `json:"sender_id,omitempty"`
}
