package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andinotravel/reservas/utils"
)

func TestRuleValueResolution(t *testing.T) {
	t.Run("IntegerWinsOverEverything", func(t *testing.T) {
		rule := &RescheduleRule{
			ValueInteger: utils.ToPtr(int64(48)),
			ValueDecimal: utils.ToPtr(decimal.NewFromInt(7)),
			ValueText:    utils.ToPtr("domingo"),
			ValueBoolean: utils.ToPtr(true),
		}
		value := rule.Value()
		assert.Equal(t, RuleValueInteger, value.Kind)
		assert.EqualValues(t, 48, value.Integer)
	})

	t.Run("DecimalBeatsTextAndBoolean", func(t *testing.T) {
		rule := &RescheduleRule{
			ValueDecimal: utils.ToPtr(decimal.NewFromFloat(2.5)),
			ValueText:    utils.ToPtr("x"),
		}
		value := rule.Value()
		assert.Equal(t, RuleValueDecimal, value.Kind)
	})

	t.Run("EmptyTextCountsAsUnset", func(t *testing.T) {
		rule := &RescheduleRule{
			ValueText:    utils.ToPtr(""),
			ValueBoolean: utils.ToPtr(true),
		}
		value := rule.Value()
		assert.Equal(t, RuleValueBoolean, value.Kind)
		assert.True(t, value.Boolean)
	})

	t.Run("NoSlotPopulated", func(t *testing.T) {
		rule := &RescheduleRule{}
		assert.True(t, rule.Value().IsZero())
	})
}

func TestRuleValueAccessors(t *testing.T) {
	t.Run("IntFromInteger", func(t *testing.T) {
		n, ok := (RuleValue{Kind: RuleValueInteger, Integer: 72}).Int()
		assert.True(t, ok)
		assert.EqualValues(t, 72, n)
	})

	t.Run("IntFromDecimalTruncates", func(t *testing.T) {
		n, ok := (RuleValue{Kind: RuleValueDecimal, Decimal: decimal.NewFromFloat(2.9)}).Int()
		assert.True(t, ok)
		assert.EqualValues(t, 2, n)
	})

	t.Run("IntFromText", func(t *testing.T) {
		_, ok := (RuleValue{Kind: RuleValueText, Text: "48"}).Int()
		assert.False(t, ok)
	})

	t.Run("ListSplitsAndTrims", func(t *testing.T) {
		list := (RuleValue{Kind: RuleValueText, Text: " domingo, lunes ,,sabado "}).List()
		assert.Equal(t, []string{"domingo", "lunes", "sabado"}, list)
	})

	t.Run("ListOnNonText", func(t *testing.T) {
		assert.Nil(t, (RuleValue{Kind: RuleValueInteger, Integer: 3}).List())
	})
}

func TestRuleKindValid(t *testing.T) {
	for _, kind := range EvaluationOrder {
		assert.True(t, kind.Valid(), "kind %s", kind)
	}
	assert.False(t, RuleKind("OTRO").Valid())
	assert.False(t, RuleKind("").Valid())
}

func TestRuleWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("OpenBounds", func(t *testing.T) {
		rule := &RescheduleRule{}
		assert.True(t, rule.WithinWindow(now))
	})

	t.Run("BeforeStart", func(t *testing.T) {
		rule := &RescheduleRule{ValidFrom: utils.ToPtr(now.AddDate(0, 0, 1))}
		assert.False(t, rule.WithinWindow(now))
	})

	t.Run("AfterEnd", func(t *testing.T) {
		rule := &RescheduleRule{ValidUntil: utils.ToPtr(now.AddDate(0, 0, -1))}
		assert.False(t, rule.WithinWindow(now))
	})

	t.Run("InsideWindow", func(t *testing.T) {
		rule := &RescheduleRule{
			ValidFrom:  utils.ToPtr(now.AddDate(0, 0, -1)),
			ValidUntil: utils.ToPtr(now.AddDate(0, 0, 1)),
		}
		assert.True(t, rule.WithinWindow(now))
	})
}
