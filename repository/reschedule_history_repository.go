// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// RescheduleHistoryRepositoryImpl implements RescheduleHistoryRepository interface
type RescheduleHistoryRepositoryImpl struct {
	*BaseRepository[models.RescheduleHistory, models.RescheduleHistoryFilter]
}

// NewRescheduleHistoryRepository creates a new reschedule history repository
func NewRescheduleHistoryRepository(db *gorm.DB) RescheduleHistoryRepository {
	return &RescheduleHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.RescheduleHistory, models.RescheduleHistoryFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *RescheduleHistoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.RescheduleHistoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ReservationID != nil {
		query = query.Where("reservation_id = ?", *filter.ReservationID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves history records based on filter criteria
func (r *RescheduleHistoryRepositoryImpl) ByFilter(ctx context.Context, filter models.RescheduleHistoryFilter, orderBy string, limit, offset int) ([]*models.RescheduleHistory, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.RescheduleHistory{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.RescheduleHistory
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find reschedule history by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of history records matching the filter
func (r *RescheduleHistoryRepositoryImpl) Count(ctx context.Context, filter models.RescheduleHistoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.RescheduleHistory{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reschedule history: %w", err)
	}
	return count, nil
}

// ListByReservation retrieves the full history of a reservation, newest first
func (r *RescheduleHistoryRepositoryImpl) ListByReservation(ctx context.Context, reservationID uint) ([]*models.RescheduleHistory, error) {
	return r.ByFilter(ctx, models.RescheduleHistoryFilter{ReservationID: &reservationID}, "", 0, 0)
}

// CountByReservation returns how many times a reservation has been rescheduled
func (r *RescheduleHistoryRepositoryImpl) CountByReservation(ctx context.Context, reservationID uint) (int64, error) {
	return r.Count(ctx, models.RescheduleHistoryFilter{ReservationID: &reservationID})
}

// ListBetween retrieves history records created within a time window
func (r *RescheduleHistoryRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]*models.RescheduleHistory, error) {
	return r.ByFilter(ctx, models.RescheduleHistoryFilter{CreatedAfter: &from, CreatedBefore: &to}, "created_at ASC", 0, 0)
}
