package dto

import "time"

// RescheduleReportRequest bounds the XLSX reschedule report
type RescheduleReportRequest struct {
	From *time.Time `json:"from,omitempty" query:"from"`
	To   *time.Time `json:"to,omitempty" query:"to"`
}

// RuleItem represents a reschedule rule row in admin listings
type RuleItem struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	AppliesTo    string  `json:"applies_to"`
	ValueKind    string  `json:"value_kind"`
	Value        any     `json:"value"`
	Priority     int     `json:"priority"`
	Active       bool    `json:"active"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// ConfigEntryDTO represents a global config entry with its decoded value
type ConfigEntryDTO struct {
	Key         string  `json:"key"`
	RawValue    string  `json:"raw_value"`
	ValueKind   string  `json:"value_kind"`
	Value       any     `json:"value"`
	Description *string `json:"description,omitempty"`
}

// ListConfigEntriesResponse returns active global config entries
type ListConfigEntriesResponse struct {
	Items []ConfigEntryDTO `json:"items"`
	Total int              `json:"total"`
}

// ListRulesResponse returns active reschedule rules
type ListRulesResponse struct {
	Items []RuleItem `json:"items"`
	Total int        `json:"total"`
}
