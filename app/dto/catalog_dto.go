package dto

// CategoryDTO represents a catalog category
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ListCategoriesResponse returns catalog categories
type ListCategoriesResponse struct {
	Items []CategoryDTO `json:"items"`
	Total int           `json:"total"`
}

// ServiceDTO represents a bookable service in responses
type ServiceDTO struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Cost        string   `json:"cost"`
	CategoryID  uint     `json:"category_id"`
	Days        int      `json:"days"`
	Included    []string `json:"included"`
	Rating      *string  `json:"rating,omitempty"`
	Images      []string `json:"images"`
}

// ListServicesResponse returns visible services
type ListServicesResponse struct {
	Items []ServiceDTO `json:"items"`
	Total int          `json:"total"`
}

// TourPackageDTO represents a tour package in responses
type TourPackageDTO struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	ShortDescription string   `json:"short_description"`
	Rating           string   `json:"rating"`
	ReviewCount      int      `json:"review_count"`
	Price            string   `json:"price"`
	OriginalPrice    string   `json:"original_price"`
	Duration         string   `json:"duration"`
	MaxPeople        int      `json:"max_people"`
	Difficulty       string   `json:"difficulty"`
	Included         []string `json:"included"`
	NotIncluded      []string `json:"not_included"`
	Images           []string `json:"images"`
	ServiceIDs       []uint   `json:"service_ids,omitempty"`
	CategoryID       uint     `json:"category_id"`
}

// ListTourPackagesResponse returns tour packages
type ListTourPackagesResponse struct {
	Items []TourPackageDTO `json:"items"`
	Total int              `json:"total"`
}
