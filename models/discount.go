package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount is a named promotion attached to services. Unlike coupons,
// discounts always carry a bounded validity window: both dates are required.
type Discount struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Percentage  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"percentage"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     time.Time       `gorm:"not null" json:"end_date"`
	Active      *bool           `gorm:"default:true;index" json:"active,omitempty"`
	Type        BenefitType     `gorm:"type:varchar(12);not null;default:'PORCENTAJE'" json:"type"`
	Value       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"value"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
}

func (Discount) TableName() string { return "discounts" }

// DiscountFilter represents filter criteria for discount queries.
type DiscountFilter struct {
	ID     *uint        `json:"id,omitempty"`
	Code   *string      `json:"code,omitempty"`
	Type   *BenefitType `json:"type,omitempty"`
	Active *bool        `json:"active,omitempty"`
}
