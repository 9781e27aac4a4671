package models

// Category groups services and packages in the catalog.
type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

func (Category) TableName() string { return "categories" }

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}
