package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalConfigEntryTypedValue(t *testing.T) {
	t.Run("Integer", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: " 42 ", ValueKind: ConfigKindInteger}
		assert.Equal(t, int64(42), entry.TypedValue())
	})

	t.Run("IntegerParseFailureReturnsRaw", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: "abc", ValueKind: ConfigKindInteger}
		assert.Equal(t, "abc", entry.TypedValue())
	})

	t.Run("Decimal", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: "3.5", ValueKind: ConfigKindDecimal}
		assert.Equal(t, 3.5, entry.TypedValue())
	})

	t.Run("Boolean", func(t *testing.T) {
		for _, raw := range []string{"true", "1", "yes", "si", " SI "} {
			entry := &GlobalConfigEntry{RawValue: raw, ValueKind: ConfigKindBoolean}
			assert.Equal(t, true, entry.TypedValue(), "raw %q", raw)
		}
		for _, raw := range []string{"false", "0", "no", ""} {
			entry := &GlobalConfigEntry{RawValue: raw, ValueKind: ConfigKindBoolean}
			assert.Equal(t, false, entry.TypedValue(), "raw %q", raw)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: `{"max": 3}`, ValueKind: ConfigKindJSON}
		assert.Equal(t, map[string]any{"max": float64(3)}, entry.TypedValue())
	})

	t.Run("MalformedJSONReturnsRaw", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: "{broken", ValueKind: ConfigKindJSON}
		assert.Equal(t, "{broken", entry.TypedValue())
	})

	t.Run("List", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: " a, b ,c", ValueKind: ConfigKindList}
		assert.Equal(t, []string{"a", "b", "c"}, entry.TypedValue())
	})

	t.Run("KindMatchingIsCaseInsensitive", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: "7", ValueKind: "integer"}
		assert.Equal(t, int64(7), entry.TypedValue())
	})

	t.Run("EmptyKindIsString", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: "plain"}
		assert.Equal(t, "plain", entry.TypedValue())
	})

	t.Run("UnknownKindIsString", func(t *testing.T) {
		entry := &GlobalConfigEntry{RawValue: "plain", ValueKind: "FANCY"}
		assert.Equal(t, "plain", entry.TypedValue())
	})
}
