// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// ServiceDiscountRepositoryImpl implements ServiceDiscountRepository interface
type ServiceDiscountRepositoryImpl struct {
	*BaseRepository[models.ServiceDiscount, models.ServiceDiscountFilter]
}

// NewServiceDiscountRepository creates a new service discount repository
func NewServiceDiscountRepository(db *gorm.DB) ServiceDiscountRepository {
	return &ServiceDiscountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ServiceDiscount, models.ServiceDiscountFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ServiceDiscountRepositoryImpl) applyFilter(query *gorm.DB, filter models.ServiceDiscountFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ServiceID != nil {
		query = query.Where("service_id = ?", *filter.ServiceID)
	}
	if filter.DiscountID != nil {
		query = query.Where("discount_id = ?", *filter.DiscountID)
	}
	if filter.Exclusive != nil {
		query = query.Where("exclusive = ?", *filter.Exclusive)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// ByFilter retrieves assignments based on filter criteria
func (r *ServiceDiscountRepositoryImpl) ByFilter(ctx context.Context, filter models.ServiceDiscountFilter, orderBy string, limit, offset int) ([]*models.ServiceDiscount, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServiceDiscount{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ServiceDiscount
	if err := query.Preload("Discount").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find service discounts by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of assignments matching the filter
func (r *ServiceDiscountRepositoryImpl) Count(ctx context.Context, filter models.ServiceDiscountFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ServiceDiscount{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count service discounts: %w", err)
	}
	return count, nil
}

// ListActiveByService retrieves the active assignments of a service with their
// discounts preloaded
func (r *ServiceDiscountRepositoryImpl) ListActiveByService(ctx context.Context, serviceID uint) ([]*models.ServiceDiscount, error) {
	active := true
	return r.ByFilter(ctx, models.ServiceDiscountFilter{ServiceID: &serviceID, Active: &active}, "", 0, 0)
}
