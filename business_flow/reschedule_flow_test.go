package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/app/services"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
)

type rescheduleEnv struct {
	reservations *fakeReservationRepo
	rules        *fakeRuleRepo
	history      *fakeHistoryRepo
	customers    *fakeCustomerRepo
	audit        *fakeAuditRepo
	emails       *services.RecordingEmailProvider
	flow         RescheduleFlow
}

func newRescheduleEnv(now time.Time) *rescheduleEnv {
	env := &rescheduleEnv{
		reservations: newFakeReservationRepo(),
		rules:        newFakeRuleRepo(),
		history:      newFakeHistoryRepo(),
		customers:    newFakeCustomerRepo(),
		audit:        newFakeAuditRepo(),
		emails:       services.NewRecordingEmailProvider(),
	}
	notifier := services.NewNotificationService(services.NewMockSMSProvider(), env.emails)
	env.flow = NewRescheduleFlow(
		env.reservations, env.rules, env.history, env.customers, env.audit,
		fakeTxManager{}, notifier, fixedClock(now), nil, 0,
	)
	return env
}

func (env *rescheduleEnv) addCustomer() *models.Customer {
	return env.customers.add(&models.Customer{
		FirstName:    "Maria",
		LastName:     "Condori",
		Email:        "maria.condori@example.com",
		PasswordHash: "x",
		Role:         models.RoleClient,
		IsActive:     utils.ToPtr(true),
	})
}

func (env *rescheduleEnv) addReservation(customerID uint, start time.Time, status models.ReservationStatus) *models.Reservation {
	r := &models.Reservation{
		CustomerID: customerID,
		StartDate:  start,
		EndDate:    start.Add(48 * time.Hour),
		Status:     status,
		Currency:   utils.DefaultCurrency,
		Items: []models.ReservationService{
			{ServiceID: 7, Quantity: 1},
		},
	}
	_ = env.reservations.Save(context.Background(), r)
	return r
}

func intRule(kind models.RuleKind, appliesTo string, value int64, priority int) *models.RescheduleRule {
	return &models.RescheduleRule{
		Name:         "rule " + string(kind),
		Kind:         kind,
		AppliesTo:    appliesTo,
		ValueInteger: utils.ToPtr(value),
		Active:       utils.ToPtr(true),
		Priority:     priority,
	}
}

func textRule(kind models.RuleKind, appliesTo, value string, priority int) *models.RescheduleRule {
	return &models.RescheduleRule{
		Name:      "rule " + string(kind),
		Kind:      kind,
		AppliesTo: appliesTo,
		ValueText: utils.ToPtr(value),
		Active:    utils.ToPtr(true),
		Priority:  priority,
	}
}

func TestEvaluateReschedule(t *testing.T) {
	// A Monday at noon.
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("RejectsBelowMinimumLeadTime", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 48, 0))

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(24 * time.Hour),
			Reason:        "change of plans",
		}, customer.ID, models.RoleClient, nil)

		require.Error(t, err)
		assert.True(t, IsRescheduleRejected(err))

		var bizErr *BusinessError
		require.True(t, errors.As(err, &bizErr))
		assert.Equal(t, "RESCHEDULE_REJECTED_TIEMPO_MINIMO", bizErr.Code)

		// The reservation is untouched.
		stored, err := env.reservations.ByID(ctx, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusConfirmed, stored.Status)
		assert.Equal(t, 0, stored.RescheduleCount)
		assert.True(t, stored.StartDate.Equal(reservation.StartDate))
		assert.Equal(t, 0, env.emails.Count())

		// The rejection was audited.
		require.Len(t, env.audit.entries, 1)
		assert.Equal(t, models.AuditActionRescheduleRejected, env.audit.entries[0].Action)
	})

	t.Run("PrefersConfiguredErrorMessage", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		rule := intRule(models.RuleMinLeadTime, models.RoleAll, 48, 0)
		rule.ErrorMessage = utils.ToPtr("Debe reprogramar con 48 horas de anticipacion")
		env.rules.add(rule)

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(2 * time.Hour),
		}, customer.ID, models.RoleClient, nil)

		var bizErr *BusinessError
		require.True(t, errors.As(err, &bizErr))
		assert.Equal(t, "Debe reprogramar con 48 horas de anticipacion", bizErr.Message)
	})

	t.Run("RejectionIsIdempotent", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 48, 0))

		req := &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(24 * time.Hour),
			Reason:        "change of plans",
		}

		_, firstErr := env.flow.EvaluateReschedule(ctx, req, customer.ID, models.RoleClient, nil)
		_, secondErr := env.flow.EvaluateReschedule(ctx, req, customer.ID, models.RoleClient, nil)

		var first, second *BusinessError
		require.True(t, errors.As(firstErr, &first))
		require.True(t, errors.As(secondErr, &second))
		assert.Equal(t, first.Code, second.Code)
		assert.Equal(t, first.Message, second.Message)

		// Neither evaluation mutated the reservation or wrote history.
		stored, err := env.reservations.ByID(ctx, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ReservationStatusConfirmed, stored.Status)
		assert.Equal(t, 0, stored.RescheduleCount)
		assert.True(t, stored.StartDate.Equal(reservation.StartDate))

		count, err := env.history.CountByReservation(ctx, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("AcceptsAndAppliesReschedule", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		originalStart := now.Add(10 * 24 * time.Hour)
		reservation := env.addReservation(customer.ID, originalStart, models.ReservationStatusConfirmed)
		env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 24, 0))

		newStart := now.Add(5 * 24 * time.Hour)
		resp, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  newStart,
			Reason:        "flight moved",
		}, customer.ID, models.RoleClient, &ClientMetadata{IPAddress: "10.0.0.1", UserAgent: "test"})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.RescheduleCount)
		assert.Equal(t, string(models.ReservationStatusRescheduled), resp.Status)
		assert.Equal(t, originalStart.Format(time.RFC3339), resp.PreviousDate)
		assert.Equal(t, newStart.Format(time.RFC3339), resp.NewDate)

		stored, err := env.reservations.ByID(ctx, reservation.ID)
		require.NoError(t, err)
		assert.True(t, stored.StartDate.Equal(newStart))
		// The original 48h duration is preserved.
		assert.True(t, stored.EndDate.Equal(newStart.Add(48*time.Hour)))
		require.NotNil(t, stored.OriginalStartDate)
		assert.True(t, stored.OriginalStartDate.Equal(originalStart))
		require.NotNil(t, stored.RescheduleReason)
		assert.Equal(t, "flight moved", *stored.RescheduleReason)

		// Notification went out and the history row was flagged.
		assert.Equal(t, 1, env.emails.Count())
		rows, err := env.history.ListByReservation(ctx, reservation.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].PreviousDate.Equal(originalStart))
		assert.True(t, rows[0].NewDate.Equal(newStart.UTC()))
		assert.True(t, rows[0].NotificationSent)

		require.Len(t, env.audit.entries, 1)
		assert.Equal(t, models.AuditActionRescheduleAccepted, env.audit.entries[0].Action)
	})

	t.Run("KeepsOriginalDateAcrossReschedules", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		originalStart := now.Add(10 * 24 * time.Hour)
		reservation := env.addReservation(customer.ID, originalStart, models.ReservationStatusConfirmed)

		for i := 1; i <= 2; i++ {
			_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
				ReservationID: reservation.ID,
				NewStartDate:  now.Add(time.Duration(10+i) * 24 * time.Hour),
			}, customer.ID, models.RoleClient, nil)
			require.NoError(t, err)
		}

		stored, err := env.reservations.ByID(ctx, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.RescheduleCount)
		require.NotNil(t, stored.OriginalStartDate)
		assert.True(t, stored.OriginalStartDate.Equal(originalStart))

		count, err := env.history.CountByReservation(ctx, reservation.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("EnforcesRescheduleLimit", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusRescheduled)
		reservation.RescheduleCount = 2
		require.NoError(t, env.reservations.Update(ctx, reservation))
		env.rules.add(intRule(models.RuleMaxReschedules, models.RoleAll, 2, 0))

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(5 * 24 * time.Hour),
		}, customer.ID, models.RoleClient, nil)

		var bizErr *BusinessError
		require.True(t, errors.As(err, &bizErr))
		assert.Equal(t, "RESCHEDULE_REJECTED_LIMITE_REPROGRAMACIONES", bizErr.Code)
		assert.True(t, errors.Is(err, ErrRescheduleLimitReached))
	})

	t.Run("RoleSpecificRuleWinsOverAll", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		// The permissive ALL rule would pass, the CLIENTE rule blocks.
		env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 2, 0))
		env.rules.add(intRule(models.RuleMinLeadTime, string(models.RoleClient), 200, 0))

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(72 * time.Hour),
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, IsRescheduleRejected(err))

		// An admin only hits the ALL rule.
		_, err = env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(72 * time.Hour),
		}, customer.ID, models.RoleAdmin, nil)
		assert.NoError(t, err)
	})

	t.Run("HigherPriorityRuleWins", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 24, 5))
		env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 200, 10))

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(72 * time.Hour),
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrMinLeadTimeViolated))
	})

	t.Run("RejectsBlackoutDayBySpanishName", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(textRule(models.RuleBlackoutDays, models.RoleAll, "domingo, lunes", 0))

		// 2026-03-08 is a Sunday.
		sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  sunday,
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrBlackoutDay))

		// A Wednesday passes.
		wednesday := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
		_, err = env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  wednesday,
		}, customer.ID, models.RoleClient, nil)
		assert.NoError(t, err)
	})

	t.Run("BlackoutHourBoundsAreInclusive", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(textRule(models.RuleBlackoutHours, models.RoleAll, "22-23", 0))

		at := func(hour int) time.Time {
			return time.Date(2026, 3, 11, hour, 30, 0, 0, time.UTC)
		}

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID, NewStartDate: at(22),
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrBlackoutHour))

		_, err = env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID, NewStartDate: at(23),
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrBlackoutHour))

		_, err = env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID, NewStartDate: at(21),
		}, customer.ID, models.RoleClient, nil)
		assert.NoError(t, err)
	})

	t.Run("BlackoutHourRangeMayCrossMidnight", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(textRule(models.RuleBlackoutHours, models.RoleAll, "22-06", 0))

		at := func(hour int) time.Time {
			return time.Date(2026, 3, 11, hour, 30, 0, 0, time.UTC)
		}

		for _, hour := range []int{23, 2, 6} {
			_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
				ReservationID: reservation.ID, NewStartDate: at(hour),
			}, customer.ID, models.RoleClient, nil)
			assert.True(t, errors.Is(err, ErrBlackoutHour), "hour %d", hour)
		}

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID, NewStartDate: at(12),
		}, customer.ID, models.RoleClient, nil)
		assert.NoError(t, err)
	})

	t.Run("RejectsRestrictedServices", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.rules.add(textRule(models.RuleRestrictedServices, models.RoleAll, "5, 7", 0))

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(72 * time.Hour),
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrRestrictedService))
	})

	t.Run("DetectsConcurrentReschedule", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)
		env.reservations.lockHook = func(r *models.Reservation) {
			r.RescheduleCount++
		}

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(72 * time.Hour),
		}, customer.ID, models.RoleClient, nil)

		require.Error(t, err)
		assert.True(t, IsConcurrencyConflict(err))
		var bizErr *BusinessError
		require.True(t, errors.As(err, &bizErr))
		assert.Equal(t, "CONCURRENT_RESCHEDULE", bizErr.Code)
	})

	t.Run("RejectsTerminalStatuses", func(t *testing.T) {
		env := newRescheduleEnv(now)
		customer := env.addCustomer()
		reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusCancelled)

		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(72 * time.Hour),
		}, customer.ID, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrReservationNotMovable))
	})

	t.Run("ReservationNotFound", func(t *testing.T) {
		env := newRescheduleEnv(now)
		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: 999,
			NewStartDate:  now.Add(72 * time.Hour),
		}, 1, models.RoleClient, nil)
		assert.True(t, errors.Is(err, ErrReservationNotFound))
	})
}

func TestRuleValueFor(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("ResolvesIntegerRule", func(t *testing.T) {
		env := newRescheduleEnv(now)
		rule := env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 48, 3))

		resp, err := env.flow.RuleValueFor(ctx, models.RuleMinLeadTime, models.RoleClient)
		require.NoError(t, err)
		assert.Equal(t, string(models.RuleMinLeadTime), resp.Kind)
		assert.Equal(t, models.RoleAll, resp.AppliesTo)
		assert.Equal(t, string(models.RuleValueInteger), resp.ValueKind)
		assert.EqualValues(t, 48, resp.Value)
		require.NotNil(t, resp.RuleID)
		assert.Equal(t, rule.ID, *resp.RuleID)
		require.NotNil(t, resp.Priority)
		assert.Equal(t, 3, *resp.Priority)
	})

	t.Run("NoRuleConfigured", func(t *testing.T) {
		env := newRescheduleEnv(now)
		resp, err := env.flow.RuleValueFor(ctx, models.RuleBlackoutDays, models.RoleClient)
		require.NoError(t, err)
		assert.Equal(t, string(models.RuleValueNone), resp.ValueKind)
		assert.Nil(t, resp.RuleID)
	})

	t.Run("UnknownKindRejected", func(t *testing.T) {
		env := newRescheduleEnv(now)
		_, err := env.flow.RuleValueFor(ctx, models.RuleKind("OTRO"), models.RoleClient)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRuleKindUnknown))

		var bizErr *BusinessError
		require.True(t, errors.As(err, &bizErr))
		assert.Equal(t, "UNKNOWN_RULE_KIND", bizErr.Code)
	})
}

func TestListRules(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	env := newRescheduleEnv(now)

	env.rules.add(intRule(models.RuleMinLeadTime, models.RoleAll, 48, 0))
	inactive := intRule(models.RuleMaxLeadTime, models.RoleAll, 720, 0)
	inactive.Active = utils.ToPtr(false)
	env.rules.add(inactive)

	resp, err := env.flow.ListRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, string(models.RuleMinLeadTime), resp.Items[0].Kind)
	assert.EqualValues(t, 48, resp.Items[0].Value)
}

func TestListHistory(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	env := newRescheduleEnv(now)
	customer := env.addCustomer()
	reservation := env.addReservation(customer.ID, now.Add(10*24*time.Hour), models.ReservationStatusConfirmed)

	for i := 1; i <= 3; i++ {
		_, err := env.flow.EvaluateReschedule(ctx, &dto.RescheduleRequest{
			ReservationID: reservation.ID,
			NewStartDate:  now.Add(time.Duration(10+i) * 24 * time.Hour),
		}, customer.ID, models.RoleClient, nil)
		require.NoError(t, err)
	}

	resp, err := env.flow.ListHistory(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	// Newest first.
	assert.Equal(t, now.Add(13*24*time.Hour).Format(time.RFC3339), resp.Items[0].NewDate)
	assert.Equal(t, now.Add(11*24*time.Hour).Format(time.RFC3339), resp.Items[2].NewDate)

	_, err = env.flow.ListHistory(ctx, 999)
	assert.True(t, errors.Is(err, ErrReservationNotFound))
}
