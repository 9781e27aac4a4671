package models

import (
	"time"

	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// RescheduleHistory is the immutable audit record written once per accepted
// reschedule. Only NotificationSent may change after creation, when the
// reschedule confirmation goes out.
type RescheduleHistory struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID    uint      `gorm:"not null;index" json:"reservation_id"`
	PreviousDate     time.Time `gorm:"not null" json:"previous_date"`
	NewDate          time.Time `gorm:"not null" json:"new_date"`
	Reason           string    `gorm:"type:varchar(255);not null" json:"reason"`
	RescheduledByID  *uint     `json:"rescheduled_by_id,omitempty"`
	NotificationSent bool      `gorm:"not null;default:false" json:"notification_sent"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Reservation   *Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnDelete:CASCADE" json:"reservation,omitempty"`
	RescheduledBy *Customer    `gorm:"foreignKey:RescheduledByID;references:ID;constraint:OnDelete:SET NULL" json:"rescheduled_by,omitempty"`
}

func (RescheduleHistory) TableName() string { return "reschedule_history" }

// BeforeCreate normalizes timestamps if zero.
func (h *RescheduleHistory) BeforeCreate(tx *gorm.DB) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = utils.UTCNow()
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// RescheduleHistoryFilter represents filter criteria for history queries.
type RescheduleHistoryFilter struct {
	ID            *uint      `json:"id,omitempty"`
	ReservationID *uint      `json:"reservation_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
