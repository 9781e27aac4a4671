// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/andinotravel/reservas/models"
	"gorm.io/gorm"
)

// SupportTicketRepositoryImpl implements SupportTicketRepository interface
type SupportTicketRepositoryImpl struct {
	*BaseRepository[models.SupportTicket, models.SupportTicketFilter]
}

// NewSupportTicketRepository creates a new support ticket repository
func NewSupportTicketRepository(db *gorm.DB) SupportTicketRepository {
	return &SupportTicketRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SupportTicket, models.SupportTicketFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *SupportTicketRepositoryImpl) applyFilter(query *gorm.DB, filter models.SupportTicketFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ReservationID != nil {
		query = query.Where("reservation_id = ?", *filter.ReservationID)
	}
	if filter.AssignedAgentID != nil {
		query = query.Where("assigned_agent_id = ?", *filter.AssignedAgentID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tickets based on filter criteria
func (r *SupportTicketRepositoryImpl) ByFilter(ctx context.Context, filter models.SupportTicketFilter, orderBy string, limit, offset int) ([]*models.SupportTicket, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SupportTicket{}), filter)

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

	var rows []*models.SupportTicket
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find support tickets by filter: %w", err)
	}
	return rows, nil
}

// Count returns the number of tickets matching the filter
func (r *SupportTicketRepositoryImpl) Count(ctx context.Context, filter models.SupportTicketFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SupportTicket{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count support tickets: %w", err)
	}
	return count, nil
}

// ByTicketNumber retrieves a ticket by its human-readable number
func (r *SupportTicketRepositoryImpl) ByTicketNumber(ctx context.Context, number string) (*models.SupportTicket, error) {
	db := r.getDB(ctx)

	var ticket models.SupportTicket
	err := db.Where("ticket_number = ?", number).First(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ticket by number: %w", err)
	}
	return &ticket, nil
}

// CountOpenByAgent returns how many unresolved tickets an agent currently holds
func (r *SupportTicketRepositoryImpl) CountOpenByAgent(ctx context.Context, agentID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.SupportTicket{}).
		Where("assigned_agent_id = ?", agentID).
		Where("status IN ?", []models.TicketStatus{
			models.TicketStatusPending,
			models.TicketStatusInProgress,
			models.TicketStatusAwaitingClient,
		}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets for agent %d: %w", agentID, err)
	}
	return count, nil
}

// ListByCustomer retrieves tickets belonging to a customer with pagination
func (r *SupportTicketRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.SupportTicket, error) {
	return r.ByFilter(ctx, models.SupportTicketFilter{CustomerID: &customerID}, "created_at DESC", limit, offset)
}
