package models

import (
	"github.com/shopspring/decimal"
)

// ReservationService is a priced line item: one service booked on a
// reservation, with the unit price frozen at booking time.
type ReservationService struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID uint            `gorm:"not null;index" json:"reservation_id"`
	ServiceID     uint            `gorm:"not null;index" json:"service_id"`
	Quantity      uint            `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`
	Currency      string          `gorm:"type:varchar(10);not null;default:'BOB'" json:"currency"`

	Service *Service `gorm:"foreignKey:ServiceID;references:ID;constraint:OnDelete:CASCADE" json:"service,omitempty"`
}

func (ReservationService) TableName() string { return "reservation_services" }

// Subtotal returns quantity times unit price.
func (rs *ReservationService) Subtotal() decimal.Decimal {
	return rs.UnitPrice.Mul(decimal.NewFromInt(int64(rs.Quantity)))
}
