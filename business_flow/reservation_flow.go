package businessflow

import (
	"context"
	"encoding/json"
	"log"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
	"github.com/andinotravel/reservas/utils"
	"github.com/shopspring/decimal"
)

// ReservationFlow manages the reservation lifecycle
type ReservationFlow interface {
	CreateReservation(ctx context.Context, req *dto.CreateReservationRequest, metadata *ClientMetadata) (*dto.CreateReservationResponse, error)
	GetReservation(ctx context.Context, reservationID, customerID uint) (*dto.ReservationDTO, error)
	ListReservations(ctx context.Context, req *dto.ListReservationsRequest) (*dto.ListReservationsResponse, error)
	CancelReservation(ctx context.Context, reservationID, customerID uint, metadata *ClientMetadata) (*dto.ReservationDTO, error)
}

// ReservationFlowImpl implements ReservationFlow
type ReservationFlowImpl struct {
	reservationRepo repository.ReservationRepository
	serviceRepo     repository.ServiceRepository
	couponRepo      repository.CouponRepository
	customerRepo    repository.CustomerRepository
	auditRepo       repository.AuditLogRepository
	tx              repository.TxManager
	clock           Clock
}

func NewReservationFlow(
	reservationRepo repository.ReservationRepository,
	serviceRepo repository.ServiceRepository,
	couponRepo repository.CouponRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	tx repository.TxManager,
	clock Clock,
) ReservationFlow {
	if clock == nil {
		clock = SystemClock
	}
	return &ReservationFlowImpl{
		reservationRepo: reservationRepo,
		serviceRepo:     serviceRepo,
		couponRepo:      couponRepo,
		customerRepo:    customerRepo,
		auditRepo:       auditRepo,
		tx:              tx,
		clock:           clock,
	}
}

// CreateReservation creates a reservation with priced line items, applying a
// coupon when one is supplied. An absent end date defaults to three days after
// the start date.
func (f *ReservationFlowImpl) CreateReservation(ctx context.Context, req *dto.CreateReservationRequest, metadata *ClientMetadata) (*dto.CreateReservationResponse, error) {
	customer, err := f.customerRepo.ByID(ctx, req.CustomerID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to load customer", err)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "Customer not found", ErrCustomerNotFound)
	}
	if !utils.IsTrue(customer.IsActive) {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}
	if len(req.Items) == 0 {
		return nil, NewBusinessError("EMPTY_RESERVATION", "Reservation requires at least one service", ErrEmptyReservation)
	}

	startDate := req.StartDate.UTC()
	endDate := startDate.AddDate(0, 0, utils.DefaultReservationDays)
	if req.EndDate != nil {
		endDate = req.EndDate.UTC()
	}

	total := decimal.Zero
	items := make([]models.ReservationService, 0, len(req.Items))
	for _, line := range req.Items {
		service, err := f.serviceRepo.ByID(ctx, line.ServiceID)
		if err != nil {
			return nil, NewBusinessError("SERVICE_LOOKUP_FAILED", "Failed to load service", err)
		}
		if service == nil {
			return nil, NewBusinessErrorf("SERVICE_NOT_FOUND", "Service %d not found", ErrServiceNotFound, line.ServiceID)
		}
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		item := models.ReservationService{
			ServiceID: service.ID,
			Quantity:  uint(quantity),
			UnitPrice: service.Cost,
			Currency:  utils.DefaultCurrency,
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	var couponID *uint
	if req.CouponCode != nil && *req.CouponCode != "" {
		coupon, err := f.couponRepo.ByCode(ctx, *req.CouponCode)
		if err != nil {
			return nil, NewBusinessError("COUPON_LOOKUP_FAILED", "Failed to load coupon", err)
		}
		if coupon == nil {
			return nil, NewBusinessError("COUPON_NOT_FOUND", "Coupon not found", ErrCouponNotFound)
		}
		if !coupon.ValidAt(f.clock()) {
			return nil, NewBusinessError("COUPON_NOT_VALID", "Coupon is not valid at this date", ErrCouponNotValid)
		}
		total = coupon.Apply(total)
		couponID = &coupon.ID
	}

	reservation := &models.Reservation{
		CustomerID: req.CustomerID,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     models.ReservationStatusPending,
		CouponID:   couponID,
		Total:      total,
		Currency:   utils.DefaultCurrency,
		Items:      items,
	}
	for _, companion := range req.Companions {
		reservation.Companions = append(reservation.Companions, models.ReservationCompanion{
			Companion: &models.Companion{
				FirstNames: companion.FirstNames,
				LastNames:  companion.LastNames,
				Document:   companion.Document,
			},
			IsHolder: companion.IsHolder,
		})
	}

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		return f.reservationRepo.Save(txCtx, reservation)
	})
	if err != nil {
		return nil, NewBusinessError("RESERVATION_CREATE_FAILED", "Failed to create reservation", err)
	}

	f.audit(ctx, models.AuditActionReservationCreated, reservation, metadata, nil)

	return &dto.CreateReservationResponse{
		Message:     "Reservation created",
		Reservation: ToReservationDTO(*reservation),
	}, nil
}

// GetReservation returns one reservation, verifying ownership
func (f *ReservationFlowImpl) GetReservation(ctx context.Context, reservationID, customerID uint) (*dto.ReservationDTO, error) {
	reservation, err := f.loadOwned(ctx, reservationID, customerID)
	if err != nil {
		return nil, err
	}
	out := ToReservationDTO(*reservation)
	return &out, nil
}

// ListReservations returns a customer's reservations, optionally by status
func (f *ReservationFlowImpl) ListReservations(ctx context.Context, req *dto.ListReservationsRequest) (*dto.ListReservationsResponse, error) {
	filter := models.ReservationFilter{CustomerID: &req.CustomerID}
	if req.Status != nil && *req.Status != "" {
		status := models.ReservationStatus(*req.Status)
		filter.Status = &status
	}

	pageSize := int(req.PageSize)
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := 0
	if req.Page > 1 {
		offset = (int(req.Page) - 1) * pageSize
	}

	rows, err := f.reservationRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, offset)
	if err != nil {
		return nil, NewBusinessError("RESERVATION_LIST_FAILED", "Failed to list reservations", err)
	}

	out := &dto.ListReservationsResponse{Items: make([]dto.ReservationDTO, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, ToReservationDTO(*row))
	}
	out.Total = len(out.Items)
	return out, nil
}

// CancelReservation cancels a pending, confirmed or rescheduled reservation
func (f *ReservationFlowImpl) CancelReservation(ctx context.Context, reservationID, customerID uint, metadata *ClientMetadata) (*dto.ReservationDTO, error) {
	var updated *models.Reservation

	err := f.tx.Do(ctx, func(txCtx context.Context) error {
		locked, err := f.reservationRepo.ByIDForUpdate(txCtx, reservationID)
		if err != nil {
			return NewBusinessError("RESERVATION_LOCK_FAILED", "Failed to lock reservation", err)
		}
		if locked == nil {
			return NewBusinessError("RESERVATION_NOT_FOUND", "Reservation not found", ErrReservationNotFound)
		}
		if locked.CustomerID != customerID {
			return NewBusinessError("RESERVATION_NOT_OWNED", "Reservation does not belong to customer", ErrReservationNotOwned)
		}

		switch locked.Status {
		case models.ReservationStatusCancelled, models.ReservationStatusCompleted, models.ReservationStatusPaid:
			return NewBusinessError("RESERVATION_NOT_CANCELABLE", "Reservation can no longer be cancelled", ErrReservationNotCancelable)
		}

		locked.Status = models.ReservationStatusCancelled
		if err := f.reservationRepo.Update(txCtx, locked); err != nil {
			return NewBusinessError("RESERVATION_UPDATE_FAILED", "Failed to cancel reservation", err)
		}
		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.audit(ctx, models.AuditActionReservationCancelled, updated, metadata, nil)

	out := ToReservationDTO(*updated)
	return &out, nil
}

func (f *ReservationFlowImpl) loadOwned(ctx context.Context, reservationID, customerID uint) (*models.Reservation, error) {
	rows, err := f.reservationRepo.ByFilter(ctx, models.ReservationFilter{ID: &reservationID}, "", 1, 0)
	if err != nil {
		return nil, NewBusinessError("RESERVATION_LOOKUP_FAILED", "Failed to load reservation", err)
	}
	if len(rows) == 0 {
		return nil, NewBusinessError("RESERVATION_NOT_FOUND", "Reservation not found", ErrReservationNotFound)
	}
	reservation := rows[0]
	if reservation.CustomerID != customerID {
		return nil, NewBusinessError("RESERVATION_NOT_OWNED", "Reservation does not belong to customer", ErrReservationNotOwned)
	}
	return reservation, nil
}

func (f *ReservationFlowImpl) audit(ctx context.Context, action string, reservation *models.Reservation, metadata *ClientMetadata, cause error) {
	success := cause == nil
	meta, _ := json.Marshal(map[string]any{
		"reservation_id": reservation.ID,
		"status":         string(reservation.Status),
	})

	entry := &models.AuditLog{
		CustomerID: &reservation.CustomerID,
		Action:     action,
		Metadata:   meta,
		Success:    &success,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}
	if err := f.auditRepo.Save(ctx, entry); err != nil {
		log.Printf("failed to write reservation audit entry: %v", err)
	}
}
