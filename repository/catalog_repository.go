// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl implements CategoryRepository interface
type CategoryRepositoryImpl struct {
	*BaseRepository[models.Category, models.CategoryFilter]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &CategoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Category, models.CategoryFilter](db),
	}
}

func (r *CategoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.CategoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves categories based on filter criteria
func (r *CategoryRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Category{}), filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find categories by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of categories matching the filter
func (r *CategoryRepositoryImpl) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Category{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// TourPackageRepositoryImpl implements TourPackageRepository interface
type TourPackageRepositoryImpl struct {
	*BaseRepository[models.TourPackage, models.TourPackageFilter]
}

// NewTourPackageRepository creates a new tour package repository
func NewTourPackageRepository(db *gorm.DB) TourPackageRepository {
	return &TourPackageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.TourPackage, models.TourPackageFilter](db),
	}
}

func (r *TourPackageRepositoryImpl) applyFilter(query *gorm.DB, filter models.TourPackageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Location != nil {
		query = query.Where("location = ?", *filter.Location)
	}
	return query
}

// ByFilter retrieves tour packages based on filter criteria
func (r *TourPackageRepositoryImpl) ByFilter(ctx context.Context, filter models.TourPackageFilter, orderBy string, limit, offset int) ([]*models.TourPackage, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TourPackage{}), filter)

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

	var rows []*models.TourPackage
	if err := query.Preload("Services").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find tour packages by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of tour packages matching the filter
func (r *TourPackageRepositoryImpl) Count(ctx context.Context, filter models.TourPackageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TourPackage{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tour packages: %w", err)
	}
	return count, nil
}
