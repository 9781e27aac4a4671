// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// CouponRepositoryImpl implements CouponRepository interface
type CouponRepositoryImpl struct {
	*BaseRepository[models.Coupon, models.CouponFilter]
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &CouponRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Coupon, models.CouponFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *CouponRepositoryImpl) applyFilter(query *gorm.DB, filter models.CouponFilter) *gorm.DB {
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

// ByFilter retrieves coupons based on filter criteria
func (r *CouponRepositoryImpl) ByFilter(ctx context.Context, filter models.CouponFilter, orderBy string, limit, offset int) ([]*models.Coupon, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Coupon{}), filter)

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

	var rows []*models.Coupon
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find coupons by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of coupons matching the filter
func (r *CouponRepositoryImpl) Count(ctx context.Context, filter models.CouponFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Coupon{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	return count, nil
}

// ByCode retrieves a coupon by its unique code
func (r *CouponRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Coupon, error) {
	rows, err := r.ByFilter(ctx, models.CouponFilter{Code: &code}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find coupon by code: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
