// Package repository_test contains integration tests that run against a real
// PostgreSQL instance. They are skipped when no test database is reachable;
// set TEST_DB_HOST and friends to point at one.
package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
	testingutil "github.com/andinotravel/reservas/testing"
	"github.com/andinotravel/reservas/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestDB(t *testing.T, testFunc func(*testingutil.TestDB)) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			t.Logf("failed to cleanup test database: %v", cleanupErr)
		}
	}()

	testFunc(testDB)
}

func TestRescheduleRuleRepository(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewRescheduleRuleRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ActiveRulePicksHighestPriority", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			// Lower priority inserted first so creation order cannot mask the sort.
			low, err := fixtures.CreateTestRule(models.RuleMinLeadTime, string(models.RoleClient), 24, 5)
			require.NoError(t, err)
			high, err := fixtures.CreateTestRule(models.RuleMinLeadTime, string(models.RoleClient), 48, 10)
			require.NoError(t, err)

			rule, err := repo.ActiveRule(ctx, models.RuleMinLeadTime, string(models.RoleClient))
			require.NoError(t, err)
			require.NotNil(t, rule)
			assert.Equal(t, high.ID, rule.ID)
			assert.NotEqual(t, low.ID, rule.ID)
			require.NotNil(t, rule.ValueInteger)
			assert.Equal(t, int64(48), *rule.ValueInteger)
		})

		t.Run("ActiveRuleMatchesKindAndRoleExactly", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestRule(models.RuleMinLeadTime, models.RoleAll, 12, 1)
			require.NoError(t, err)

			rule, err := repo.ActiveRule(ctx, models.RuleMinLeadTime, string(models.RoleClient))
			require.NoError(t, err)
			assert.Nil(t, rule)

			rule, err = repo.ActiveRule(ctx, models.RuleMaxReschedules, models.RoleAll)
			require.NoError(t, err)
			assert.Nil(t, rule)

			rule, err = repo.ActiveRule(ctx, models.RuleMinLeadTime, models.RoleAll)
			require.NoError(t, err)
			require.NotNil(t, rule)
		})

		t.Run("ActiveRuleSkipsInactiveRows", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			inactive, err := fixtures.CreateTestRule(models.RuleMaxReschedules, models.RoleAll, 2, 10)
			require.NoError(t, err)
			inactive.Active = utils.ToPtr(false)
			require.NoError(t, repo.Update(ctx, inactive))

			fallback, err := fixtures.CreateTestRule(models.RuleMaxReschedules, models.RoleAll, 3, 1)
			require.NoError(t, err)

			rule, err := repo.ActiveRule(ctx, models.RuleMaxReschedules, models.RoleAll)
			require.NoError(t, err)
			require.NotNil(t, rule)
			assert.Equal(t, fallback.ID, rule.ID)
		})

		t.Run("ListActiveOrdersByKindThenPriority", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			_, err := fixtures.CreateTestRule(models.RuleMinLeadTime, models.RoleAll, 24, 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestTextRule(models.RuleBlackoutDays, models.RoleAll, "domingo", 5)
			require.NoError(t, err)

			rules, err := repo.ListActive(ctx)
			require.NoError(t, err)
			require.Len(t, rules, 2)
			assert.Equal(t, models.RuleBlackoutDays, rules[0].Kind)
			assert.Equal(t, models.RuleMinLeadTime, rules[1].Kind)
		})
	})
}

func TestReservationRepositoryLocking(t *testing.T) {
	withTestDB(t, func(testDB *testingutil.TestDB) {
		repo := repository.NewReservationRepository(testDB.DB)
		txManager := repository.NewTxManager(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer(models.RoleClient)
		require.NoError(t, err)
		category, err := fixtures.CreateTestCategory("Aventura")
		require.NoError(t, err)
		service, err := fixtures.CreateTestService(category.ID, "Salar de Uyuni 3D", 350)
		require.NoError(t, err)

		t.Run("ByIDForUpdateReturnsNilForUnknownID", func(t *testing.T) {
			err := txManager.Do(ctx, func(txCtx context.Context) error {
				row, err := repo.ByIDForUpdate(txCtx, 999999)
				require.NoError(t, err)
				assert.Nil(t, row)
				return nil
			})
			require.NoError(t, err)
		})

		t.Run("LockedUpdateCommits", func(t *testing.T) {
			reservation, err := fixtures.CreateTestReservation(
				customer.ID, service.ID, time.Now().UTC().Add(72*time.Hour), models.ReservationStatusPending)
			require.NoError(t, err)

			err = txManager.Do(ctx, func(txCtx context.Context) error {
				locked, err := repo.ByIDForUpdate(txCtx, reservation.ID)
				if err != nil {
					return err
				}
				locked.RescheduleCount++
				locked.Status = models.ReservationStatusRescheduled
				return repo.Update(txCtx, locked)
			})
			require.NoError(t, err)

			stored, err := repo.ByID(ctx, reservation.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, 1, stored.RescheduleCount)
			assert.Equal(t, models.ReservationStatusRescheduled, stored.Status)
		})

		t.Run("RollbackDiscardsLockedUpdate", func(t *testing.T) {
			reservation, err := fixtures.CreateTestReservation(
				customer.ID, service.ID, time.Now().UTC().Add(72*time.Hour), models.ReservationStatusPending)
			require.NoError(t, err)

			failed := errors.New("abort after update")
			err = txManager.Do(ctx, func(txCtx context.Context) error {
				locked, err := repo.ByIDForUpdate(txCtx, reservation.ID)
				if err != nil {
					return err
				}
				locked.RescheduleCount++
				if err := repo.Update(txCtx, locked); err != nil {
					return err
				}
				return failed
			})
			require.ErrorIs(t, err, failed)

			stored, err := repo.ByID(ctx, reservation.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, 0, stored.RescheduleCount)
			assert.Equal(t, models.ReservationStatusPending, stored.Status)
		})

		t.Run("ConcurrentWritersSerialize", func(t *testing.T) {
			reservation, err := fixtures.CreateTestReservation(
				customer.ID, service.ID, time.Now().UTC().Add(72*time.Hour), models.ReservationStatusPending)
			require.NoError(t, err)

			const writers = 4
			var wg sync.WaitGroup
			errs := make([]error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = txManager.Do(ctx, func(txCtx context.Context) error {
						locked, err := repo.ByIDForUpdate(txCtx, reservation.ID)
						if err != nil {
							return err
						}
						// The read-modify-write races unless the row lock holds
						// until commit.
						time.Sleep(10 * time.Millisecond)
						locked.RescheduleCount++
						return repo.Update(txCtx, locked)
					})
				}(i)
			}
			wg.Wait()
			for i, err := range errs {
				require.NoError(t, err, "writer %d", i)
			}

			stored, err := repo.ByID(ctx, reservation.ID)
			require.NoError(t, err)
			require.NotNil(t, stored)
			assert.Equal(t, writers, stored.RescheduleCount)
		})
	})
}
