// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// GlobalConfigRepositoryImpl implements GlobalConfigRepository interface
type GlobalConfigRepositoryImpl struct {
	*BaseRepository[models.GlobalConfigEntry, models.GlobalConfigFilter]
}

// NewGlobalConfigRepository creates a new global config repository
func NewGlobalConfigRepository(db *gorm.DB) GlobalConfigRepository {
	return &GlobalConfigRepositoryImpl{
		BaseRepository: NewBaseRepository[models.GlobalConfigEntry, models.GlobalConfigFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *GlobalConfigRepositoryImpl) applyFilter(query *gorm.DB, filter models.GlobalConfigFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Key != nil {
		query = query.Where("key = ?", *filter.Key)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// ByFilter retrieves config entries based on filter criteria
func (r *GlobalConfigRepositoryImpl) ByFilter(ctx context.Context, filter models.GlobalConfigFilter, orderBy string, limit, offset int) ([]*models.GlobalConfigEntry, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.GlobalConfigEntry{}), filter)

	if orderBy == "" {
		orderBy = "key ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.GlobalConfigEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find config entries by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of config entries matching the filter
func (r *GlobalConfigRepositoryImpl) Count(ctx context.Context, filter models.GlobalConfigFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.GlobalConfigEntry{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count config entries: %w", err)
	}
	return count, nil
}

// ByKey retrieves the active entry for a key. Returns nil when the key is
// missing or inactive.
func (r *GlobalConfigRepositoryImpl) ByKey(ctx context.Context, key string) (*models.GlobalConfigEntry, error) {
	active := true
	rows, err := r.ByFilter(ctx, models.GlobalConfigFilter{Key: &key, Active: &active}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find config entry by key: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
