package dto

// AssignDiscountRequest carries a new service discount assignment
type AssignDiscountRequest struct {
	ServiceID  uint  `json:"service_id" validate:"required"`
	DiscountID uint  `json:"discount_id" validate:"required"`
	Exclusive  *bool `json:"exclusive,omitempty"`
	Active     *bool `json:"active,omitempty"`
}

// UpdateDiscountAssignmentRequest carries changes to an existing assignment
type UpdateDiscountAssignmentRequest struct {
	AssignmentID uint  `json:"-"`
	DiscountID   *uint `json:"discount_id,omitempty"`
	Exclusive    *bool `json:"exclusive,omitempty"`
	Active       *bool `json:"active,omitempty"`
}

// DiscountAssignmentItem represents an assignment row in responses
type DiscountAssignmentItem struct {
	ID           uint   `json:"id"`
	ServiceID    uint   `json:"service_id"`
	DiscountID   uint   `json:"discount_id"`
	DiscountName string `json:"discount_name,omitempty"`
	Exclusive    bool   `json:"exclusive"`
	Active       bool   `json:"active"`
	AssignedDate string `json:"assigned_date"`
}

// DiscountAssignmentResponse returns the persisted assignment
type DiscountAssignmentResponse struct {
	Message    string                 `json:"message"`
	Assignment DiscountAssignmentItem `json:"assignment"`
}

// ListDiscountAssignmentsResponse returns the assignments of a service
type ListDiscountAssignmentsResponse struct {
	Items []DiscountAssignmentItem `json:"items"`
	Total int                      `json:"total"`
}

// DiscountItem represents a discount row in listings
type DiscountItem struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Type       string `json:"type"`
	Percentage string `json:"percentage"`
	Value      string `json:"value"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Active     bool   `json:"active"`
}

// ListDiscountsResponse returns available discounts
type ListDiscountsResponse struct {
	Items []DiscountItem `json:"items"`
	Total int            `json:"total"`
}
