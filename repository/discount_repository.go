// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// DiscountRepositoryImpl implements DiscountRepository interface
type DiscountRepositoryImpl struct {
	*BaseRepository[models.Discount, models.DiscountFilter]
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &DiscountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Discount, models.DiscountFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *DiscountRepositoryImpl) applyFilter(query *gorm.DB, filter models.DiscountFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// ByFilter retrieves discounts based on filter criteria
func (r *DiscountRepositoryImpl) ByFilter(ctx context.Context, filter models.DiscountFilter, orderBy string, limit, offset int) ([]*models.Discount, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Discount{}), filter)

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

	var rows []*models.Discount
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find discounts by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of discounts matching the filter
func (r *DiscountRepositoryImpl) Count(ctx context.Context, filter models.DiscountFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Discount{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count discounts: %w", err)
	}
	return count, nil
}

// ByCode retrieves a discount by its unique code
func (r *DiscountRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Discount, error) {
	rows, err := r.ByFilter(ctx, models.DiscountFilter{Code: &code}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find discount by code: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
