// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/andinotravel/reservas/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// TxManager runs a unit of work inside a database transaction. Repositories
// called with the returned context join the same transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	ListActiveByRole(ctx context.Context, role models.CustomerRole) ([]*models.Customer, error)
}

// ReservationRepository defines operations for reservations
type ReservationRepository interface {
	Repository[models.Reservation, models.ReservationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Reservation, error)
	ByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Reservation, error)
}

// RescheduleRuleRepository defines operations for reschedule rules
type RescheduleRuleRepository interface {
	Repository[models.RescheduleRule, models.RescheduleRuleFilter]
	ActiveRule(ctx context.Context, kind models.RuleKind, appliesTo string) (*models.RescheduleRule, error)
	ListActive(ctx context.Context) ([]*models.RescheduleRule, error)
}

// GlobalConfigRepository defines operations for global configuration entries
type GlobalConfigRepository interface {
	Repository[models.GlobalConfigEntry, models.GlobalConfigFilter]
	ByKey(ctx context.Context, key string) (*models.GlobalConfigEntry, error)
}

// RescheduleHistoryRepository defines operations for reschedule history records
type RescheduleHistoryRepository interface {
	Repository[models.RescheduleHistory, models.RescheduleHistoryFilter]
	ListByReservation(ctx context.Context, reservationID uint) ([]*models.RescheduleHistory, error)
	CountByReservation(ctx context.Context, reservationID uint) (int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.RescheduleHistory, error)
}

// ServiceRepository defines operations for catalog services
type ServiceRepository interface {
	Repository[models.Service, models.ServiceFilter]
	ByIDForUpdate(ctx context.Context, id uint) (*models.Service, error)
	ListVisible(ctx context.Context, limit, offset int) ([]*models.Service, error)
}

// CategoryRepository defines operations for catalog categories
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
}

// TourPackageRepository defines operations for tour packages
type TourPackageRepository interface {
	Repository[models.TourPackage, models.TourPackageFilter]
}

// DiscountRepository defines operations for discounts
type DiscountRepository interface {
	Repository[models.Discount, models.DiscountFilter]
	ByCode(ctx context.Context, code string) (*models.Discount, error)
}

// CouponRepository defines operations for coupons
type CouponRepository interface {
	Repository[models.Coupon, models.CouponFilter]
	ByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// ServiceDiscountRepository defines operations for service discount assignments
type ServiceDiscountRepository interface {
	Repository[models.ServiceDiscount, models.ServiceDiscountFilter]
	ListActiveByService(ctx context.Context, serviceID uint) ([]*models.ServiceDiscount, error)
}

// SupportTicketRepository defines operations for support tickets
type SupportTicketRepository interface {
	Repository[models.SupportTicket, models.SupportTicketFilter]
	ByTicketNumber(ctx context.Context, number string) (*models.SupportTicket, error)
	CountOpenByAgent(ctx context.Context, agentID uint) (int64, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.SupportTicket, error)
}

// SupportMessageRepository defines operations for support ticket messages
type SupportMessageRepository interface {
	Repository[models.SupportMessage, models.SupportMessageFilter]
	ListByTicket(ctx context.Context, ticketID uint) ([]*models.SupportMessage, error)
}

// SupportConfigRepository defines operations for the support configuration row
type SupportConfigRepository interface {
	Get(ctx context.Context) (*models.SupportConfig, error)
	Save(ctx context.Context, cfg *models.SupportConfig) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
