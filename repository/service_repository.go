// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceRepositoryImpl implements ServiceRepository interface
type ServiceRepositoryImpl struct {
	*BaseRepository[models.Service, models.ServiceFilter]
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &ServiceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Service, models.ServiceFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ServiceRepositoryImpl) applyFilter(query *gorm.DB, filter models.ServiceFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.PublicVisible != nil {
		query = query.Where("public_visible = ?", *filter.PublicVisible)
	}
	return query
}

// ByFilter retrieves services based on filter criteria
func (r *ServiceRepositoryImpl) ByFilter(ctx context.Context, filter models.ServiceFilter, orderBy string, limit, offset int) ([]*models.Service, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Service{}), filter)

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

	var rows []*models.Service
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find services by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of services matching the filter
func (r *ServiceRepositoryImpl) Count(ctx context.Context, filter models.ServiceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Service{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}

// ByIDForUpdate retrieves a service by ID holding a row lock. Must run inside
// a transaction started by the caller.
func (r *ServiceRepositoryImpl) ByIDForUpdate(ctx context.Context, id uint) (*models.Service, error) {
	db := r.getDB(ctx)

	var service models.Service
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&service, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock service %d: %w", id, err)
	}
	return &service, nil
}

// ListVisible retrieves publicly visible services with pagination
func (r *ServiceRepositoryImpl) ListVisible(ctx context.Context, limit, offset int) ([]*models.Service, error) {
	visible := true
	return r.ByFilter(ctx, models.ServiceFilter{PublicVisible: &visible}, "title ASC", limit, offset)
}
