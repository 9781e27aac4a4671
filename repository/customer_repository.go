// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"gorm.io/gorm"
)

// CustomerRepositoryImpl implements CustomerRepository interface
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *CustomerRepositoryImpl) applyFilter(query *gorm.DB, filter models.CustomerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves customers based on filter criteria
func (r *CustomerRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)

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

	var rows []*models.Customer
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of customers matching the filter
func (r *CustomerRepositoryImpl) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Customer{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// ByEmail retrieves a customer by email address
func (r *CustomerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	rows, err := r.ByFilter(ctx, models.CustomerFilter{Email: &email}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByUUID retrieves a customer by public UUID
func (r *CustomerRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Customer, error) {
	parsed, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	rows, err := r.ByFilter(ctx, models.CustomerFilter{UUID: &parsed}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by uuid: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListActiveByRole retrieves active customers holding the given role
func (r *CustomerRepositoryImpl) ListActiveByRole(ctx context.Context, role models.CustomerRole) ([]*models.Customer, error) {
	active := true
	return r.ByFilter(ctx, models.CustomerFilter{Role: &role, IsActive: &active}, "id ASC", 0, 0)
}
