// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepositoryImpl implements ReservationRepository interface
type ReservationRepositoryImpl struct {
	*BaseRepository[models.Reservation, models.ReservationFilter]
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &ReservationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Reservation, models.ReservationFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ReservationRepositoryImpl) applyFilter(query *gorm.DB, filter models.ReservationFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartAfter != nil {
		query = query.Where("start_date >= ?", *filter.StartAfter)
	}
	if filter.StartBefore != nil {
		query = query.Where("start_date <= ?", *filter.StartBefore)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves reservations based on filter criteria
func (r *ReservationRepositoryImpl) ByFilter(ctx context.Context, filter models.ReservationFilter, orderBy string, limit, offset int) ([]*models.Reservation, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Reservation{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Reservation
	if err := query.Preload("Items").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find reservations by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of reservations matching the filter
func (r *ReservationRepositoryImpl) Count(ctx context.Context, filter models.ReservationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Reservation{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

// ByUUID retrieves a reservation by public UUID
func (r *ReservationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Reservation, error) {
	parsed, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	rows, err := r.ByFilter(ctx, models.ReservationFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation by uuid: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByIDForUpdate retrieves a reservation by ID holding a row lock. Must run
// inside a transaction started by the caller.
func (r *ReservationRepositoryImpl) ByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	db := r.getDB(ctx)

	var reservation models.Reservation
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reservation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock reservation %d: %w", id, err)
	}
	return &reservation, nil
}

// ListByCustomer retrieves reservations belonging to a customer with pagination
func (r *ReservationRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Reservation, error) {
	return r.ByFilter(ctx, models.ReservationFilter{CustomerID: &customerID}, "created_at DESC", limit, offset)
}
