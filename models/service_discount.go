package models

import (
	"time"

	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// ServiceDiscount links a discount to a service.
//
// Invariant: for a given service, the assignments with Exclusive=true and
// Active=true must have pairwise non-overlapping discount validity windows.
// The discount flow enforces this before any write.
type ServiceDiscount struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ServiceID    uint      `gorm:"not null;index" json:"service_id"`
	DiscountID   uint      `gorm:"not null;index" json:"discount_id"`
	AssignedDate time.Time `gorm:"not null" json:"assigned_date"`
	Exclusive    *bool     `gorm:"default:true;index" json:"exclusive,omitempty"`
	Active       *bool     `gorm:"default:true;index" json:"active,omitempty"`

	Service  *Service  `gorm:"foreignKey:ServiceID;references:ID;constraint:OnDelete:CASCADE" json:"service,omitempty"`
	Discount *Discount `gorm:"foreignKey:DiscountID;references:ID;constraint:OnDelete:CASCADE" json:"discount,omitempty"`
}

func (ServiceDiscount) TableName() string { return "service_discounts" }

// BeforeCreate stamps the assignment date if unset.
func (sd *ServiceDiscount) BeforeCreate(tx *gorm.DB) error {
	if sd.AssignedDate.IsZero() {
		sd.AssignedDate = utils.DateOnly(utils.UTCNow())
	}
	return nil
}

// ServiceDiscountFilter represents filter criteria for assignment queries.
type ServiceDiscountFilter struct {
	ID         *uint `json:"id,omitempty"`
	ServiceID  *uint `json:"service_id,omitempty"`
	DiscountID *uint `json:"discount_id,omitempty"`
	Exclusive  *bool `json:"exclusive,omitempty"`
	Active     *bool `json:"active,omitempty"`
}
