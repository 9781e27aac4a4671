// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// SupportMessageRepositoryImpl implements SupportMessageRepository interface
type SupportMessageRepositoryImpl struct {
	*BaseRepository[models.SupportMessage, models.SupportMessageFilter]
}

// NewSupportMessageRepository creates a new support message repository
func NewSupportMessageRepository(db *gorm.DB) SupportMessageRepository {
	return &SupportMessageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SupportMessage, models.SupportMessageFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *SupportMessageRepositoryImpl) applyFilter(query *gorm.DB, filter models.SupportMessageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.TicketID != nil {
		query = query.Where("ticket_id = ?", *filter.TicketID)
	}
	if filter.SenderID != nil {
		query = query.Where("sender_id = ?", *filter.SenderID)
	}
	return query
}

// ByFilter retrieves messages based on filter criteria
func (r *SupportMessageRepositoryImpl) ByFilter(ctx context.Context, filter models.SupportMessageFilter, orderBy string, limit, offset int) ([]*models.SupportMessage, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SupportMessage{}), filter)

	if orderBy == "" {
		orderBy = "created_at ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.SupportMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find support messages by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of messages matching the filter
func (r *SupportMessageRepositoryImpl) Count(ctx context.Context, filter models.SupportMessageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SupportMessage{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count support messages: %w", err)
	}
	return count, nil
}

// ListByTicket retrieves the conversation of a ticket in chronological order
func (r *SupportMessageRepositoryImpl) ListByTicket(ctx context.Context, ticketID uint) ([]*models.SupportMessage, error) {
	return r.ByFilter(ctx, models.SupportMessageFilter{TicketID: &ticketID}, "", 0, 0)
}
