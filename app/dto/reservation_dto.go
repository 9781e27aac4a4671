package dto

import "time"

// ReservationItemRequest is one service line in a new reservation
type ReservationItemRequest struct {
	ServiceID uint `json:"service_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"omitempty,min=1"`
}

// CompanionRequest is one travel companion in a new reservation
type CompanionRequest struct {
	FirstNames string `json:"first_names" validate:"required,max=100"`
	LastNames  string `json:"last_names" validate:"required,max=100"`
	Document   string `json:"document" validate:"required,max=30"`
	IsHolder   bool   `json:"is_holder"`
}

// CreateReservationRequest carries a new reservation
// EndDate is optional and defaults to three days after StartDate
type CreateReservationRequest struct {
	CustomerID uint                     `json:"customer_id"`
	StartDate  time.Time                `json:"start_date" validate:"required"`
	EndDate    *time.Time               `json:"end_date,omitempty"`
	CouponCode *string                  `json:"coupon_code,omitempty" validate:"omitempty,max=50"`
	Items      []ReservationItemRequest `json:"items" validate:"required,min=1,dive"`
	Companions []CompanionRequest       `json:"companions,omitempty" validate:"omitempty,dive"`
}

// ReservationItemDTO represents a line item in responses
type ReservationItemDTO struct {
	ServiceID uint   `json:"service_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// ReservationDTO represents a reservation in responses
type ReservationDTO struct {
	ID                uint                 `json:"id"`
	UUID              string               `json:"uuid"`
	CustomerID        uint                 `json:"customer_id"`
	Status            string               `json:"status"`
	StartDate         string               `json:"start_date"`
	EndDate           string               `json:"end_date"`
	Total             string               `json:"total"`
	Currency          string               `json:"currency"`
	CouponID          *uint                `json:"coupon_id,omitempty"`
	OriginalStartDate *string              `json:"original_start_date,omitempty"`
	RescheduleCount   int                  `json:"reschedule_count"`
	Items             []ReservationItemDTO `json:"items,omitempty"`
	CreatedAt         string               `json:"created_at"`
}

// CreateReservationResponse returns the created reservation
type CreateReservationResponse struct {
	Message     string         `json:"message"`
	Reservation ReservationDTO `json:"reservation"`
}

// ListReservationsRequest filters for listing reservations
type ListReservationsRequest struct {
	CustomerID uint    `json:"customer_id"`
	Status     *string `json:"status,omitempty" query:"status"`
	Page       uint    `json:"page,omitempty" query:"page"`
	PageSize   uint    `json:"page_size,omitempty" query:"page_size"`
}

// ListReservationsResponse returns reservations with pagination info
type ListReservationsResponse struct {
	Items []ReservationDTO `json:"items"`
	Total int              `json:"total"`
}
