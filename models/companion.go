package models

import (
	"time"
)

// Companion is a traveling companion attached to reservations.
type Companion struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstNames  string     `gorm:"type:varchar(100);not null" json:"first_names"`
	LastNames   string     `gorm:"type:varchar(100);not null" json:"last_names"`
	Document    string     `gorm:"type:varchar(30);not null" json:"document"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Email       *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone       *string    `gorm:"type:varchar(25)" json:"phone,omitempty"`
	Nationality *string    `gorm:"type:varchar(50)" json:"nationality,omitempty"`
}

func (Companion) TableName() string { return "companions" }

// ReservationCompanion links a companion to a reservation. A companion may be
// on many reservations but at most once per reservation.
type ReservationCompanion struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID uint    `gorm:"not null;uniqueIndex:idx_reservation_companion" json:"reservation_id"`
	CompanionID   uint    `gorm:"not null;uniqueIndex:idx_reservation_companion" json:"companion_id"`
	Relationship  *string `gorm:"type:varchar(50)" json:"relationship,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'ACTIVO'" json:"status"`
	IsHolder      bool    `gorm:"not null;default:false" json:"is_holder"`

	Companion *Companion `gorm:"foreignKey:CompanionID;references:ID;constraint:OnDelete:CASCADE" json:"companion,omitempty"`
}

func (ReservationCompanion) TableName() string { return "reservation_companions" }
