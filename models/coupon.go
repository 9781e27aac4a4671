package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BenefitType distinguishes percentage from fixed-amount benefits, shared by
// coupons and discounts.
type BenefitType string

const (
	BenefitPercentage BenefitType = "PORCENTAJE"
	BenefitFixed      BenefitType = "FIJO"
)

// Valid checks if the benefit type is valid.
func (t BenefitType) Valid() bool {
	switch t {
	case BenefitPercentage, BenefitFixed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for BenefitType.
func (t *BenefitType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = BenefitType(v)
	case []byte:
		*t = BenefitType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into BenefitType", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for BenefitType.
func (t BenefitType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid BenefitType: %s", t)
	}
	return string(t), nil
}

// Coupon is a redeemable code applied at reservation time. Its validity
// window is optional; an absent bound means unbounded on that side.
type Coupon struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Type      BenefitType     `gorm:"type:varchar(12);not null" json:"type"`
	Value     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"value"`
	StartDate *time.Time      `json:"start_date,omitempty"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	Active    *bool           `gorm:"default:true;index" json:"active,omitempty"`
}

func (Coupon) TableName() string { return "coupons" }

// ValidAt reports whether the coupon is active and inside its window at t.
func (c *Coupon) ValidAt(t time.Time) bool {
	if c.Active != nil && !*c.Active {
		return false
	}
	if c.StartDate != nil && t.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && t.After(*c.EndDate) {
		return false
	}
	return true
}

// Apply returns the total after applying the coupon benefit to it.
// Percentage values are interpreted as 0-100; results never go below zero.
func (c *Coupon) Apply(total decimal.Decimal) decimal.Decimal {
	var discounted decimal.Decimal
	switch c.Type {
	case BenefitPercentage:
		factor := decimal.NewFromInt(100).Sub(c.Value).Div(decimal.NewFromInt(100))
		discounted = total.Mul(factor)
	case BenefitFixed:
		discounted = total.Sub(c.Value)
	default:
		return total
	}
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted.Round(2)
}

// CouponFilter represents filter criteria for coupon queries.
type CouponFilter struct {
	ID     *uint        `json:"id,omitempty"`
	Code   *string      `json:"code,omitempty"`
	Type   *BenefitType `json:"type,omitempty"`
	Active *bool        `json:"active,omitempty"`
}
