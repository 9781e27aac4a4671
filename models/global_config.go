package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// ConfigValueKind declares how a GlobalConfigEntry's raw value decodes.
// Matching is case-insensitive; unknown or empty kinds decode as STRING.
type ConfigValueKind string

const (
	ConfigKindString  ConfigValueKind = "STRING"
	ConfigKindInteger ConfigValueKind = "INTEGER"
	ConfigKindDecimal ConfigValueKind = "DECIMAL"
	ConfigKindBoolean ConfigValueKind = "BOOLEAN"
	ConfigKindJSON    ConfigValueKind = "JSON"
	ConfigKindList    ConfigValueKind = "LISTA"
)

// GlobalConfigEntry is an admin-managed key/value configuration record with a
// declared value kind. Consumers treat it as read-only.
type GlobalConfigEntry struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	RawValue    string          `gorm:"column:raw_value;type:text;not null" json:"raw_value"`
	ValueKind   ConfigValueKind `gorm:"type:varchar(50);not null;default:'STRING'" json:"value_kind"`
	Active      *bool           `gorm:"default:true;index" json:"active,omitempty"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (GlobalConfigEntry) TableName() string { return "global_config" }

// BeforeCreate normalizes timestamps if zero.
func (e *GlobalConfigEntry) BeforeCreate(tx *gorm.DB) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// TypedValue decodes the raw value per the declared kind. Decoding is never
// fatal: any parse failure degrades to returning the raw string unchanged.
//
//	INTEGER → int64, or raw string on parse failure
//	DECIMAL → float64, or raw string on parse failure
//	BOOLEAN → true iff lowercased trimmed value is one of true/1/yes/si
//	JSON    → decoded document, or raw string on parse failure
//	LISTA   → []string split on commas, each element trimmed
//	STRING or anything else → raw string
func (e *GlobalConfigEntry) TypedValue() any {
	kind := ConfigValueKind(strings.ToUpper(strings.TrimSpace(string(e.ValueKind))))
	if kind == "" {
		kind = ConfigKindString
	}

	switch kind {
	case ConfigKindInteger:
		if n, err := strconv.ParseInt(strings.TrimSpace(e.RawValue), 10, 64); err == nil {
			return n
		}
		return e.RawValue
	case ConfigKindDecimal:
		if f, err := strconv.ParseFloat(strings.TrimSpace(e.RawValue), 64); err == nil {
			return f
		}
		return e.RawValue
	case ConfigKindBoolean:
		switch strings.ToLower(strings.TrimSpace(e.RawValue)) {
		case "true", "1", "yes", "si":
			return true
		default:
			return false
		}
	case ConfigKindJSON:
		var doc any
		if err := json.Unmarshal([]byte(e.RawValue), &doc); err == nil {
			return doc
		}
		return e.RawValue
	case ConfigKindList:
		parts := strings.Split(e.RawValue, ",")
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	default:
		return e.RawValue
	}
}

// GlobalConfigFilter represents filter criteria for config queries.
type GlobalConfigFilter struct {
	ID     *uint   `json:"id,omitempty"`
	Key    *string `json:"key,omitempty"`
	Active *bool   `json:"active,omitempty"`
}
