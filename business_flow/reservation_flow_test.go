package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
)

type reservationEnv struct {
	reservations *fakeReservationRepo
	services     *fakeServiceRepo
	coupons      *fakeCouponRepo
	customers    *fakeCustomerRepo
	audit        *fakeAuditRepo
	flow         ReservationFlow
}

func newReservationEnv(now time.Time) *reservationEnv {
	env := &reservationEnv{
		reservations: newFakeReservationRepo(),
		services:     newFakeServiceRepo(),
		coupons:      newFakeCouponRepo(),
		customers:    newFakeCustomerRepo(),
		audit:        newFakeAuditRepo(),
	}
	env.flow = NewReservationFlow(env.reservations, env.services, env.coupons, env.customers, env.audit, fakeTxManager{}, fixedClock(now))
	return env
}

func (env *reservationEnv) addCustomer(active bool) *models.Customer {
	return env.customers.add(&models.Customer{
		FirstName:    "Juan",
		LastName:     "Mamani",
		Email:        "juan.mamani@example.com",
		PasswordHash: "x",
		Role:         models.RoleClient,
		IsActive:     utils.ToPtr(active),
	})
}

func (env *reservationEnv) addServicePriced(cost int64) *models.Service {
	return env.services.add(&models.Service{
		Title: "Isla del Sol full day",
		Cost:  decimal.NewFromInt(cost),
	})
}

func TestCreateReservation(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	start := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	t.Run("FreezesPricesAndTotals", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		service := env.addServicePriced(350)

		resp, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			Items: []dto.ReservationItemRequest{
				{ServiceID: service.ID, Quantity: 2},
			},
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, "700.00", resp.Reservation.Total)
		assert.Equal(t, utils.DefaultCurrency, resp.Reservation.Currency)
		require.Len(t, resp.Reservation.Items, 1)
		assert.Equal(t, "350.00", resp.Reservation.Items[0].UnitPrice)
		assert.Equal(t, 2, resp.Reservation.Items[0].Quantity)

		// Later price changes must not affect the stored reservation.
		service.Cost = decimal.NewFromInt(999)
		stored, err := env.reservations.ByID(ctx, resp.Reservation.ID)
		require.NoError(t, err)
		assert.True(t, stored.Total.Equal(decimal.NewFromInt(700)))

		require.Len(t, env.audit.entries, 1)
		assert.Equal(t, models.AuditActionReservationCreated, env.audit.entries[0].Action)
	})

	t.Run("EndDateDefaultsToThreeDays", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		service := env.addServicePriced(100)

		resp, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			Items:      []dto.ReservationItemRequest{{ServiceID: service.ID}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, start.AddDate(0, 0, 3).Format(time.RFC3339), resp.Reservation.EndDate)
	})

	t.Run("ZeroQuantityBecomesOne", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		service := env.addServicePriced(120)

		resp, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			Items:      []dto.ReservationItemRequest{{ServiceID: service.ID, Quantity: 0}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "120.00", resp.Reservation.Total)
		assert.Equal(t, 1, resp.Reservation.Items[0].Quantity)
	})

	t.Run("AppliesPercentageCoupon", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		service := env.addServicePriced(200)
		env.coupons.add(&models.Coupon{
			Code:   "DESC10",
			Type:   models.BenefitPercentage,
			Value:  decimal.NewFromInt(10),
			Active: utils.ToPtr(true),
		})

		resp, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			CouponCode: utils.ToPtr("DESC10"),
			Items:      []dto.ReservationItemRequest{{ServiceID: service.ID, Quantity: 1}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "180.00", resp.Reservation.Total)
		require.NotNil(t, resp.Reservation.CouponID)
	})

	t.Run("RejectsExpiredCoupon", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		service := env.addServicePriced(200)
		env.coupons.add(&models.Coupon{
			Code:      "VIEJO",
			Type:      models.BenefitPercentage,
			Value:     decimal.NewFromInt(10),
			Active:    utils.ToPtr(true),
			StartDate: utils.ToPtr(now.AddDate(0, -2, 0)),
			EndDate:   utils.ToPtr(now.AddDate(0, -1, 0)),
		})

		_, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			CouponCode: utils.ToPtr("VIEJO"),
			Items:      []dto.ReservationItemRequest{{ServiceID: service.ID}},
		}, nil)
		assert.True(t, errors.Is(err, ErrCouponNotValid))
	})

	t.Run("UnknownCoupon", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		service := env.addServicePriced(200)

		_, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			CouponCode: utils.ToPtr("NOEXISTE"),
			Items:      []dto.ReservationItemRequest{{ServiceID: service.ID}},
		}, nil)
		assert.True(t, errors.Is(err, ErrCouponNotFound))
	})

	t.Run("InactiveCustomerRejected", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(false)
		service := env.addServicePriced(200)

		_, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			Items:      []dto.ReservationItemRequest{{ServiceID: service.ID}},
		}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAccountInactive))
		var bizErr *BusinessError
		require.True(t, errors.As(err, &bizErr))
		assert.Equal(t, "ACCOUNT_INACTIVE", bizErr.Code)
	})

	t.Run("EmptyItemsRejected", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)

		_, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
		}, nil)
		assert.True(t, errors.Is(err, ErrEmptyReservation))
	})

	t.Run("UnknownService", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)

		_, err := env.flow.CreateReservation(ctx, &dto.CreateReservationRequest{
			CustomerID: customer.ID,
			StartDate:  start,
			Items:      []dto.ReservationItemRequest{{ServiceID: 999}},
		}, nil)
		assert.True(t, errors.Is(err, ErrServiceNotFound))
	})
}

func TestGetReservation(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	env := newReservationEnv(now)
	customer := env.addCustomer(true)
	other := env.addCustomer(true)

	reservation := &models.Reservation{
		CustomerID: customer.ID,
		StartDate:  now.AddDate(0, 1, 0),
		EndDate:    now.AddDate(0, 1, 2),
		Status:     models.ReservationStatusConfirmed,
		Currency:   utils.DefaultCurrency,
	}
	require.NoError(t, env.reservations.Save(ctx, reservation))

	got, err := env.flow.GetReservation(ctx, reservation.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.ID, got.ID)

	_, err = env.flow.GetReservation(ctx, reservation.ID, other.ID)
	assert.True(t, errors.Is(err, ErrReservationNotOwned))

	_, err = env.flow.GetReservation(ctx, 999, customer.ID)
	assert.True(t, errors.Is(err, ErrReservationNotFound))
}

func TestCancelReservation(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	save := func(env *reservationEnv, customerID uint, status models.ReservationStatus) *models.Reservation {
		r := &models.Reservation{
			CustomerID: customerID,
			StartDate:  now.AddDate(0, 1, 0),
			EndDate:    now.AddDate(0, 1, 2),
			Status:     status,
			Currency:   utils.DefaultCurrency,
		}
		_ = env.reservations.Save(ctx, r)
		return r
	}

	t.Run("CancelsOpenStatuses", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)

		for _, status := range []models.ReservationStatus{
			models.ReservationStatusPending,
			models.ReservationStatusConfirmed,
			models.ReservationStatusRescheduled,
		} {
			reservation := save(env, customer.ID, status)
			got, err := env.flow.CancelReservation(ctx, reservation.ID, customer.ID, nil)
			require.NoError(t, err)
			assert.Equal(t, string(models.ReservationStatusCancelled), got.Status)
		}
	})

	t.Run("TerminalStatusesRejected", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)

		for _, status := range []models.ReservationStatus{
			models.ReservationStatusCancelled,
			models.ReservationStatusCompleted,
			models.ReservationStatusPaid,
		} {
			reservation := save(env, customer.ID, status)
			_, err := env.flow.CancelReservation(ctx, reservation.ID, customer.ID, nil)
			assert.True(t, errors.Is(err, ErrReservationNotCancelable))
		}
	})

	t.Run("OwnershipEnforced", func(t *testing.T) {
		env := newReservationEnv(now)
		customer := env.addCustomer(true)
		other := env.addCustomer(true)
		reservation := save(env, customer.ID, models.ReservationStatusPending)

		_, err := env.flow.CancelReservation(ctx, reservation.ID, other.ID, nil)
		assert.True(t, errors.Is(err, ErrReservationNotOwned))
	})
}

func TestListReservations(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	env := newReservationEnv(now)
	customer := env.addCustomer(true)

	for _, status := range []models.ReservationStatus{
		models.ReservationStatusPending,
		models.ReservationStatusConfirmed,
		models.ReservationStatusConfirmed,
	} {
		r := &models.Reservation{
			CustomerID: customer.ID,
			StartDate:  now.AddDate(0, 1, 0),
			EndDate:    now.AddDate(0, 1, 2),
			Status:     status,
			Currency:   utils.DefaultCurrency,
		}
		require.NoError(t, env.reservations.Save(ctx, r))
	}

	resp, err := env.flow.ListReservations(ctx, &dto.ListReservationsRequest{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)

	confirmed := string(models.ReservationStatusConfirmed)
	resp, err = env.flow.ListReservations(ctx, &dto.ListReservationsRequest{
		CustomerID: customer.ID,
		Status:     &confirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}
