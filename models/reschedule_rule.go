package models

import (
	"strings"
	"time"

	"github.com/andinotravel/reservas/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RuleKind enumerates the constraint types the reschedule policy engine
// understands. Unknown kinds are ignored by the engine.
type RuleKind string

const (
	RuleMinLeadTime        RuleKind = "TIEMPO_MINIMO"
	RuleMaxLeadTime        RuleKind = "TIEMPO_MAXIMO"
	RuleMaxReschedules     RuleKind = "LIMITE_REPROGRAMACIONES"
	RuleBlackoutDays       RuleKind = "DIAS_BLACKOUT"
	RuleBlackoutHours      RuleKind = "HORAS_BLACKOUT"
	RuleRestrictedServices RuleKind = "SERVICIOS_RESTRINGIDOS"
)

// Valid reports whether the kind is one the policy engine evaluates.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleMinLeadTime, RuleMaxLeadTime, RuleMaxReschedules,
		RuleBlackoutDays, RuleBlackoutHours, RuleRestrictedServices:
		return true
	}
	return false
}

// EvaluationOrder is the fixed order in which the policy engine applies rule
// kinds to a reschedule request.
var EvaluationOrder = []RuleKind{
	RuleMinLeadTime,
	RuleMaxLeadTime,
	RuleMaxReschedules,
	RuleBlackoutDays,
	RuleBlackoutHours,
	RuleRestrictedServices,
}

// RuleValueKind tags the active case of a RuleValue.
type RuleValueKind string

const (
	RuleValueNone    RuleValueKind = "none"
	RuleValueInteger RuleValueKind = "integer"
	RuleValueDecimal RuleValueKind = "decimal"
	RuleValueText    RuleValueKind = "text"
	RuleValueBoolean RuleValueKind = "boolean"
)

// RuleValue is the typed value a rule resolves to: a tagged variant with
// exactly one active case. Consumers switch on Kind or use the accessors.
type RuleValue struct {
	Kind    RuleValueKind
	Integer int64
	Decimal decimal.Decimal
	Text    string
	Boolean bool
}

// IsZero reports whether no value slot was populated on the rule.
func (v RuleValue) IsZero() bool { return v.Kind == RuleValueNone }

// Int converts the value to an int64 where that makes sense (integer and
// decimal cases). The second result is false for other cases.
func (v RuleValue) Int() (int64, bool) {
	switch v.Kind {
	case RuleValueInteger:
		return v.Integer, true
	case RuleValueDecimal:
		return v.Decimal.IntPart(), true
	default:
		return 0, false
	}
}

// List splits a text value on commas and trims each element. Empty elements
// are dropped. Non-text values yield nil.
func (v RuleValue) List() []string {
	if v.Kind != RuleValueText {
		return nil
	}
	parts := strings.Split(v.Text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// RescheduleRule is a typed, prioritized reschedule constraint.
//
// Exactly one of the four value columns should be populated; Value resolves
// them with the fixed precedence integer > decimal > text > boolean, so even
// a misconfigured row with several slots set yields a single deterministic
// value.
type RescheduleRule struct {
	ID              uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string           `gorm:"type:varchar(100);not null" json:"name"`
	Kind            RuleKind         `gorm:"type:varchar(50);not null;index:idx_rule_lookup" json:"kind"`
	AppliesTo       string           `gorm:"type:varchar(50);not null;default:'ALL';index:idx_rule_lookup" json:"applies_to"`
	ValueInteger    *int64           `json:"value_integer,omitempty"`
	ValueDecimal    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"value_decimal,omitempty"`
	ValueText       *string          `gorm:"type:text" json:"value_text,omitempty"`
	ValueBoolean    *bool            `json:"value_boolean,omitempty"`
	ValidFrom       *time.Time       `json:"valid_from,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
	Active          *bool            `gorm:"default:true;index:idx_rule_lookup" json:"active,omitempty"`
	Priority        int              `gorm:"not null;default:0" json:"priority"`
	ErrorMessage    *string          `gorm:"type:text" json:"error_message,omitempty"`
	ExtraConditions *string          `gorm:"type:text" json:"extra_conditions,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (RescheduleRule) TableName() string { return "reschedule_rules" }

// BeforeCreate normalizes timestamps if zero.
func (r *RescheduleRule) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// Value resolves the populated value slot into a tagged variant, applying the
// integer > decimal > text > boolean precedence. Empty text counts as unset.
func (r *RescheduleRule) Value() RuleValue {
	if r.ValueInteger != nil {
		return RuleValue{Kind: RuleValueInteger, Integer: *r.ValueInteger}
	}
	if r.ValueDecimal != nil {
		return RuleValue{Kind: RuleValueDecimal, Decimal: *r.ValueDecimal}
	}
	if r.ValueText != nil && *r.ValueText != "" {
		return RuleValue{Kind: RuleValueText, Text: *r.ValueText}
	}
	if r.ValueBoolean != nil {
		return RuleValue{Kind: RuleValueBoolean, Boolean: *r.ValueBoolean}
	}
	return RuleValue{Kind: RuleValueNone}
}

// WithinWindow reports whether t falls inside the rule's validity window.
// Absent bounds are open. Rule lookup deliberately does not apply this
// filter; callers decide whether window checking applies to their use case.
func (r *RescheduleRule) WithinWindow(t time.Time) bool {
	if r.ValidFrom != nil && t.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && t.After(*r.ValidUntil) {
		return false
	}
	return true
}

// RescheduleRuleFilter represents filter criteria for rule queries.
type RescheduleRuleFilter struct {
	ID        *uint     `json:"id,omitempty"`
	Kind      *RuleKind `json:"kind,omitempty"`
	AppliesTo *string   `json:"applies_to,omitempty"`
	Active    *bool     `json:"active,omitempty"`
}
