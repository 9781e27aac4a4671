// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// RescheduleRuleRepositoryImpl implements RescheduleRuleRepository interface
type RescheduleRuleRepositoryImpl struct {
	*BaseRepository[models.RescheduleRule, models.RescheduleRuleFilter]
}

// NewRescheduleRuleRepository creates a new reschedule rule repository
func NewRescheduleRuleRepository(db *gorm.DB) RescheduleRuleRepository {
	return &RescheduleRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.RescheduleRule, models.RescheduleRuleFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *RescheduleRuleRepositoryImpl) applyFilter(query *gorm.DB, filter models.RescheduleRuleFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.AppliesTo != nil {
		query = query.Where("applies_to = ?", *filter.AppliesTo)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// ByFilter retrieves rules based on filter criteria
func (r *RescheduleRuleRepositoryImpl) ByFilter(ctx context.Context, filter models.RescheduleRuleFilter, orderBy string, limit, offset int) ([]*models.RescheduleRule, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.RescheduleRule{}), filter)

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

	var rows []*models.RescheduleRule
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find reschedule rules by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of rules matching the filter
func (r *RescheduleRuleRepositoryImpl) Count(ctx context.Context, filter models.RescheduleRuleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.RescheduleRule{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reschedule rules: %w", err)
	}
	return count, nil
}

// ActiveRule returns the single winning active rule for a kind and audience.
// Ties on priority resolve to the most recently created rule. Returns nil when
// no rule matches.
func (r *RescheduleRuleRepositoryImpl) ActiveRule(ctx context.Context, kind models.RuleKind, appliesTo string) (*models.RescheduleRule, error) {
	active := true
	rows, err := r.ByFilter(ctx, models.RescheduleRuleFilter{
		Kind:      &kind,
		AppliesTo: &appliesTo,
		Active:    &active,
	}, "priority DESC, created_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListActive retrieves every active rule ordered by kind and priority
func (r *RescheduleRuleRepositoryImpl) ListActive(ctx context.Context) ([]*models.RescheduleRule, error) {
	active := true
	return r.ByFilter(ctx, models.RescheduleRuleFilter{Active: &active}, "kind ASC, priority DESC, created_at DESC", 0, 0)
}
