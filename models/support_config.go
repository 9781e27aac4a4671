package models

import (
	"time"

	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// SupportConfig is the singleton support-desk configuration row. Response
// times are in hours per priority level.
type SupportConfig struct {
	ID                    uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	ResponseHoursCritical int   `gorm:"not null;default:1" json:"response_hours_critical"`
	ResponseHoursHigh     int   `gorm:"not null;default:4" json:"response_hours_high"`
	ResponseHoursMedium   int   `gorm:"not null;default:12" json:"response_hours_medium"`
	ResponseHoursLow      int   `gorm:"not null;default:24" json:"response_hours_low"`
	AutoAssign            *bool `gorm:"default:true" json:"auto_assign,omitempty"`
	MaxTicketsPerAgent    int   `gorm:"not null;default:10" json:"max_tickets_per_agent"`
	EmailClient           *bool `gorm:"default:true" json:"email_client,omitempty"`
	EmailSupport          *bool `gorm:"default:true" json:"email_support,omitempty"`
	AutoCloseResolvedDays int   `gorm:"not null;default:7" json:"auto_close_resolved_days"`
	ClientReminderDays    int   `gorm:"not null;default:2" json:"client_reminder_days"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SupportConfig) TableName() string { return "support_config" }

// BeforeCreate normalizes timestamps if zero.
func (c *SupportConfig) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ResponseHoursFor maps a ticket priority to its configured response time.
func (c *SupportConfig) ResponseHoursFor(p TicketPriority) int {
	switch p {
	case TicketPriorityCritical:
		return c.ResponseHoursCritical
	case TicketPriorityHigh:
		return c.ResponseHoursHigh
	case TicketPriorityMedium:
		return c.ResponseHoursMedium
	default:
		return c.ResponseHoursLow
	}
}
