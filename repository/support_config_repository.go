// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// SupportConfigRepositoryImpl implements SupportConfigRepository interface
type SupportConfigRepositoryImpl struct {
	db *gorm.DB
}

// NewSupportConfigRepository creates a new support config repository
func NewSupportConfigRepository(db *gorm.DB) SupportConfigRepository {
	return &SupportConfigRepositoryImpl{db: db}
}

func (r *SupportConfigRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// Get returns the single configuration row, or nil when none has been seeded
func (r *SupportConfigRepositoryImpl) Get(ctx context.Context) (*models.SupportConfig, error) {
	db := r.getDB(ctx)

	var cfg models.SupportConfig
	err := db.First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load support config: %w", err)
	}
	return &cfg, nil
}

// Save upserts the configuration row
func (r *SupportConfigRepositoryImpl) Save(ctx context.Context, cfg *models.SupportConfig) error {
	db := r.getDB(ctx)

	if err := db.Save(cfg).Error; err != nil {
		return fmt.Errorf("failed to save support config: %w", err)
	}
	return nil
}
