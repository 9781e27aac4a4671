package models

import (
	"time"

	"github.com/andinotravel/reservas/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a bookable catalog item (tour, transfer, lodging, activity).
type Service struct {
	ID            uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Description   string           `gorm:"type:text;not null;default:''" json:"description"`
	Type          string           `gorm:"type:varchar(100);not null" json:"type"`
	Cost          decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"cost"`
	CategoryID    uint             `gorm:"not null;index" json:"category_id"`
	Days          int              `gorm:"not null;default:1" json:"days"`
	Included      pq.StringArray   `gorm:"type:text[];not null;default:'{}'" json:"included"`
	Rating        *decimal.Decimal `gorm:"type:decimal(2,1)" json:"rating,omitempty"`
	PublicVisible *bool            `gorm:"default:true;index" json:"public_visible,omitempty"`
	Images        pq.StringArray   `gorm:"type:text[];not null;default:'{}'" json:"images"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

func (Service) TableName() string { return "services" }

// BeforeCreate normalizes timestamps if zero.
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// ServiceFilter represents filter criteria for service queries.
type ServiceFilter struct {
	ID            *uint   `json:"id,omitempty"`
	CategoryID    *uint   `json:"category_id,omitempty"`
	Type          *string `json:"type,omitempty"`
	PublicVisible *bool   `json:"public_visible,omitempty"`
}
