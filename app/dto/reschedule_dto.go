package dto

import "time"

// RescheduleRequest carries a request to move a reservation to a new start date
// Reason is free text recorded in the reservation history
type RescheduleRequest struct {
	ReservationID uint      `json:"reservation_id"`
	NewStartDate  time.Time `json:"new_start_date" validate:"required"`
	Reason        string    `json:"reason" validate:"omitempty,max=500"`
}

// RescheduleResponse returns the reservation state after an accepted reschedule
type RescheduleResponse struct {
	Message         string `json:"message"`
	ReservationID   uint   `json:"reservation_id"`
	ReservationUUID string `json:"reservation_uuid"`
	PreviousDate    string `json:"previous_date"`
	NewDate         string `json:"new_date"`
	RescheduleCount int    `json:"reschedule_count"`
	Status          string `json:"status"`
}

// RescheduleHistoryItem represents one history row of a reservation
type RescheduleHistoryItem struct {
	ID               uint   `json:"id"`
	ReservationID    uint   `json:"reservation_id"`
	PreviousDate     string `json:"previous_date"`
	NewDate          string `json:"new_date"`
	Reason           string `json:"reason,omitempty"`
	RescheduledByID  *uint  `json:"rescheduled_by_id,omitempty"`
	NotificationSent bool   `json:"notification_sent"`
	CreatedAt        string `json:"created_at"`
}

// ListRescheduleHistoryResponse returns the history of a reservation
type ListRescheduleHistoryResponse struct {
	Items []RescheduleHistoryItem `json:"items"`
	Total int                     `json:"total"`
}

// RuleValueRequest queries the resolved value of a rule kind for a role
type RuleValueRequest struct {
	Kind string `json:"kind" query:"kind" validate:"required"`
	Role string `json:"role" query:"role" validate:"omitempty"`
}

// RuleValueResponse returns the resolved typed value of a rule
type RuleValueResponse struct {
	Kind      string  `json:"kind"`
	AppliesTo string  `json:"applies_to"`
	RuleID    *uint   `json:"rule_id,omitempty"`
	RuleName  *string `json:"rule_name,omitempty"`
	ValueKind string  `json:"value_kind"`
	Value     any     `json:"value"`
	Priority  *int    `json:"priority,omitempty"`
}
