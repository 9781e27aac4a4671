package models

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TourPackage bundles services into a sellable multi-day package.
// Itinerary, Included, NotIncluded and AvailableDates are stored as JSON
// documents, mirroring the flexible catalog content they hold.
type TourPackage struct {
	ID               uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"type:varchar(255);not null" json:"name"`
	Location         string           `gorm:"type:varchar(255);not null" json:"location"`
	ShortDescription string           `gorm:"type:text;not null" json:"short_description"`
	FullDescription  string           `gorm:"type:text;not null" json:"full_description"`
	Rating           decimal.Decimal  `gorm:"type:decimal(2,1);not null;default:0" json:"rating"`
	ReviewCount      int              `gorm:"not null;default:0" json:"review_count"`
	Price            string           `gorm:"type:varchar(100);not null" json:"price"`
	OriginalPrice    string           `gorm:"type:varchar(100);not null" json:"original_price"`
	Duration         string           `gorm:"type:varchar(100);not null" json:"duration"`
	MaxPeople        int              `gorm:"not null" json:"max_people"`
	Difficulty       string           `gorm:"type:varchar(100);not null" json:"difficulty"`
	Images           pq.StringArray   `gorm:"type:text[];not null;default:'{}'" json:"images"`
	CategoryID       uint             `gorm:"not null;index" json:"category_id"`
	Itinerary        datatypes.JSON   `gorm:"type:jsonb" json:"itinerary"`
	Included         pq.StringArray   `gorm:"type:text[];not null;default:'{}'" json:"included"`
	NotIncluded      pq.StringArray   `gorm:"type:text[];not null;default:'{}'" json:"not_included"`
	AvailableDates   datatypes.JSON   `gorm:"type:jsonb" json:"available_dates"`
	DiscountPercent  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_percent,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Services []Service `gorm:"many2many:tour_package_services" json:"services,omitempty"`
}

func (TourPackage) TableName() string { return "tour_packages" }

// TourPackageFilter represents filter criteria for package queries.
type TourPackageFilter struct {
	ID         *uint   `json:"id,omitempty"`
	CategoryID *uint   `json:"category_id,omitempty"`
	Location   *string `json:"location,omitempty"`
}
