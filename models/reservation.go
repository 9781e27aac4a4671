package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/andinotravel/reservas/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending     ReservationStatus = "PENDIENTE"
	ReservationStatusConfirmed   ReservationStatus = "CONFIRMADA"
	ReservationStatusPaid        ReservationStatus = "PAGADA"
	ReservationStatusCancelled   ReservationStatus = "CANCELADA"
	ReservationStatusCompleted   ReservationStatus = "COMPLETADA"
	ReservationStatusRescheduled ReservationStatus = "REPROGRAMADA"
)

// Valid checks if the status is valid.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusPaid,
		ReservationStatusCancelled,
		ReservationStatusCompleted,
		ReservationStatusRescheduled:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ReservationStatus.
func (s *ReservationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ReservationStatus(v)
	case []byte:
		*s = ReservationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ReservationStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for ReservationStatus.
func (s ReservationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ReservationStatus: %s", s)
	}
	return string(s), nil
}

// Reservation is a customer's booking of one or more services.
//
// OriginalStartDate records the very first start date and is set exactly once,
// on the first accepted reschedule. RescheduledTo mirrors the most recent
// accepted reschedule target. RescheduleCount only ever increases.
type Reservation struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	CustomerID        uint              `gorm:"not null;index" json:"customer_id"`
	StartDate         time.Time         `gorm:"not null;index" json:"start_date"`
	EndDate           time.Time         `gorm:"not null" json:"end_date"`
	Status            ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDIENTE';index" json:"status"`
	CouponID          *uint             `gorm:"index" json:"coupon_id,omitempty"`
	Total             decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	Currency          string            `gorm:"type:varchar(10);not null;default:'BOB'" json:"currency"`
	OriginalStartDate *time.Time        `json:"original_start_date,omitempty"`
	RescheduledTo     *time.Time        `json:"rescheduled_to,omitempty"`
	RescheduleCount   int               `gorm:"not null;default:0" json:"reschedule_count"`
	RescheduleReason  *string           `gorm:"type:varchar(255)" json:"reschedule_reason,omitempty"`
	RescheduledByID   *uint             `json:"rescheduled_by_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Customer      *Customer            `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Coupon        *Coupon              `gorm:"foreignKey:CouponID;references:ID;constraint:OnDelete:SET NULL" json:"coupon,omitempty"`
	RescheduledBy *Customer            `gorm:"foreignKey:RescheduledByID;references:ID;constraint:OnDelete:SET NULL" json:"rescheduled_by,omitempty"`
	Items         []ReservationService `gorm:"foreignKey:ReservationID" json:"items,omitempty"`
	Companions    []ReservationCompanion `gorm:"foreignKey:ReservationID" json:"companions,omitempty"`
}

func (Reservation) TableName() string { return "reservations" }

// BeforeCreate ensures UUID and timestamps are set.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ReservationFilter represents filter criteria for reservation queries.
type ReservationFilter struct {
	ID            *uint              `json:"id,omitempty"`
	UUID          *uuid.UUID         `json:"uuid,omitempty"`
	CustomerID    *uint              `json:"customer_id,omitempty"`
	Status        *ReservationStatus `json:"status,omitempty"`
	StartAfter    *time.Time         `json:"start_after,omitempty"`
	StartBefore   *time.Time         `json:"start_before,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}
