package businessflow

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
	"github.com/andinotravel/reservas/utils"
)

// DiscountFlow manages discounts and their assignments to services, enforcing
// that exclusive assignment windows never overlap per service
type DiscountFlow interface {
	AssignDiscount(ctx context.Context, req *dto.AssignDiscountRequest, metadata *ClientMetadata) (*dto.DiscountAssignmentResponse, error)
	UpdateAssignment(ctx context.Context, req *dto.UpdateDiscountAssignmentRequest, metadata *ClientMetadata) (*dto.DiscountAssignmentResponse, error)
	ListAssignments(ctx context.Context, serviceID uint) (*dto.ListDiscountAssignmentsResponse, error)
	ListDiscounts(ctx context.Context) (*dto.ListDiscountsResponse, error)
}

// DiscountFlowImpl implements DiscountFlow
type DiscountFlowImpl struct {
	serviceRepo    repository.ServiceRepository
	discountRepo   repository.DiscountRepository
	assignmentRepo repository.ServiceDiscountRepository
	auditRepo      repository.AuditLogRepository
	tx             repository.TxManager
	clock          Clock
}

func NewDiscountFlow(
	serviceRepo repository.ServiceRepository,
	discountRepo repository.DiscountRepository,
	assignmentRepo repository.ServiceDiscountRepository,
	auditRepo repository.AuditLogRepository,
	tx repository.TxManager,
	clock Clock,
) DiscountFlow {
	if clock == nil {
		clock = SystemClock
	}
	return &DiscountFlowImpl{
		serviceRepo:    serviceRepo,
		discountRepo:   discountRepo,
		assignmentRepo: assignmentRepo,
		auditRepo:      auditRepo,
		tx:             tx,
		clock:          clock,
	}
}

// effectiveWindow normalizes a discount's validity window to UTC, substituting
// open bounds so every window is comparable.
func effectiveWindow(d *models.Discount) (time.Time, time.Time) {
	start, end := utils.MinDate, utils.MaxDate
	if !d.StartDate.IsZero() {
		start = d.StartDate.UTC()
	}
	if !d.EndDate.IsZero() {
		end = d.EndDate.UTC()
	}
	return start, end
}

// windowsOverlap reports whether two closed intervals intersect. Touching
// boundaries count as overlap.
func windowsOverlap(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// checkExclusivity rejects the candidate when its discount window overlaps any
// other active exclusive assignment of the same service. excludeID skips the
// candidate's own row on updates.
func (f *DiscountFlowImpl) checkExclusivity(ctx context.Context, serviceID uint, discount *models.Discount, excludeID uint) error {
	candidateStart, candidateEnd := effectiveWindow(discount)

	existing, err := f.assignmentRepo.ListActiveByService(ctx, serviceID)
	if err != nil {
		return NewBusinessError("ASSIGNMENT_LOOKUP_FAILED", "Failed to load existing assignments", err)
	}

	for _, assignment := range existing {
		if assignment.ID == excludeID {
			continue
		}
		if !utils.IsTrue(assignment.Exclusive) {
			continue
		}
		if assignment.Discount == nil {
			other, err := f.discountRepo.ByID(ctx, assignment.DiscountID)
			if err != nil {
				return NewBusinessError("DISCOUNT_LOOKUP_FAILED", "Failed to load assigned discount", err)
			}
			if other == nil {
				continue
			}
			assignment.Discount = other
		}
		otherStart, otherEnd := effectiveWindow(assignment.Discount)
		if windowsOverlap(candidateStart, candidateEnd, otherStart, otherEnd) {
			return NewBusinessErrorf("EXCLUSIVE_DISCOUNT_CONFLICT",
				"discount %q overlaps exclusive discount %q on service %d",
				ErrExclusiveDiscountConflict, discount.Name, assignment.Discount.Name, serviceID)
		}
	}
	return nil
}

// AssignDiscount validates and persists a new service discount assignment.
// The exclusivity check and the insert run in one transaction with the
// service row locked, so concurrent candidates for the same service serialize.
func (f *DiscountFlowImpl) AssignDiscount(ctx context.Context, req *dto.AssignDiscountRequest, metadata *ClientMetadata) (*dto.DiscountAssignmentResponse, error) {
	discount, err := f.discountRepo.ByID(ctx, req.DiscountID)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LOOKUP_FAILED", "Failed to load discount", err)
	}
	if discount == nil {
		return nil, NewBusinessError("DISCOUNT_NOT_FOUND", "Discount not found", ErrDiscountNotFound)
	}

	exclusive := req.Exclusive == nil || *req.Exclusive
	active := req.Active == nil || *req.Active

	assignment := &models.ServiceDiscount{
		ServiceID:    req.ServiceID,
		DiscountID:   req.DiscountID,
		AssignedDate: utils.DateOnly(f.clock()),
		Exclusive:    &exclusive,
		Active:       &active,
	}

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		service, err := f.serviceRepo.ByIDForUpdate(txCtx, req.ServiceID)
		if err != nil {
			return NewBusinessError("SERVICE_LOCK_FAILED", "Failed to lock service", err)
		}
		if service == nil {
			return NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
		}

		if exclusive && active {
			if err := f.checkExclusivity(txCtx, req.ServiceID, discount, 0); err != nil {
				return err
			}
		}

		return f.assignmentRepo.Save(txCtx, assignment)
	})
	if err != nil {
		outcome := "failed"
		if IsExclusiveDiscountConflict(err) {
			outcome = "conflict"
		}
		discountAssignments.WithLabelValues(outcome).Inc()
		f.auditAssignment(ctx, assignment, metadata, err)
		return nil, err
	}

	discountAssignments.WithLabelValues("accepted").Inc()
	f.auditAssignment(ctx, assignment, metadata, nil)

	assignment.Discount = discount
	return &dto.DiscountAssignmentResponse{
		Message:    "Discount assigned",
		Assignment: ToDiscountAssignmentItem(*assignment),
	}, nil
}

// UpdateAssignment validates and persists changes to an existing assignment.
// The candidate's own row is excluded from the overlap check.
func (f *DiscountFlowImpl) UpdateAssignment(ctx context.Context, req *dto.UpdateDiscountAssignmentRequest, metadata *ClientMetadata) (*dto.DiscountAssignmentResponse, error) {
	assignment, err := f.assignmentRepo.ByID(ctx, req.AssignmentID)
	if err != nil {
		return nil, NewBusinessError("ASSIGNMENT_LOOKUP_FAILED", "Failed to load assignment", err)
	}
	if assignment == nil {
		return nil, NewBusinessError("ASSIGNMENT_NOT_FOUND", "Discount assignment not found", ErrAssignmentNotFound)
	}

	if req.DiscountID != nil {
		assignment.DiscountID = *req.DiscountID
	}
	if req.Exclusive != nil {
		assignment.Exclusive = req.Exclusive
	}
	if req.Active != nil {
		assignment.Active = req.Active
	}

	discount, err := f.discountRepo.ByID(ctx, assignment.DiscountID)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LOOKUP_FAILED", "Failed to load discount", err)
	}
	if discount == nil {
		return nil, NewBusinessError("DISCOUNT_NOT_FOUND", "Discount not found", ErrDiscountNotFound)
	}

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		service, err := f.serviceRepo.ByIDForUpdate(txCtx, assignment.ServiceID)
		if err != nil {
			return NewBusinessError("SERVICE_LOCK_FAILED", "Failed to lock service", err)
		}
		if service == nil {
			return NewBusinessError("SERVICE_NOT_FOUND", "Service not found", ErrServiceNotFound)
		}

		if utils.IsTrue(assignment.Exclusive) && utils.IsTrue(assignment.Active) {
			if err := f.checkExclusivity(txCtx, assignment.ServiceID, discount, assignment.ID); err != nil {
				return err
			}
		}

		return f.assignmentRepo.Update(txCtx, assignment)
	})
	if err != nil {
		outcome := "failed"
		if IsExclusiveDiscountConflict(err) {
			outcome = "conflict"
		}
		discountAssignments.WithLabelValues(outcome).Inc()
		f.auditAssignment(ctx, assignment, metadata, err)
		return nil, err
	}

	discountAssignments.WithLabelValues("accepted").Inc()
	f.auditAssignment(ctx, assignment, metadata, nil)

	assignment.Discount = discount
	return &dto.DiscountAssignmentResponse{
		Message:    "Assignment updated",
		Assignment: ToDiscountAssignmentItem(*assignment),
	}, nil
}

// ListAssignments returns the active assignments of a service
func (f *DiscountFlowImpl) ListAssignments(ctx context.Context, serviceID uint) (*dto.ListDiscountAssignmentsResponse, error) {
	rows, err := f.assignmentRepo.ListActiveByService(ctx, serviceID)
	if err != nil {
		return nil, NewBusinessError("ASSIGNMENT_LIST_FAILED", "Failed to list assignments", err)
	}

	out := &dto.ListDiscountAssignmentsResponse{Items: make([]dto.DiscountAssignmentItem, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, ToDiscountAssignmentItem(*row))
	}
	out.Total = len(out.Items)
	return out, nil
}

// ListDiscounts returns every active discount
func (f *DiscountFlowImpl) ListDiscounts(ctx context.Context) (*dto.ListDiscountsResponse, error) {
	active := true
	rows, err := f.discountRepo.ByFilter(ctx, models.DiscountFilter{Active: &active}, "start_date ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("DISCOUNT_LIST_FAILED", "Failed to list discounts", err)
	}

	out := &dto.ListDiscountsResponse{Items: make([]dto.DiscountItem, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, dto.DiscountItem{
			ID:         row.ID,
			Name:       row.Name,
			Code:       row.Code,
			Type:       string(row.Type),
			Percentage: row.Percentage.StringFixed(2),
			Value:      row.Value.StringFixed(2),
			StartDate:  row.StartDate.Format(time.RFC3339),
			EndDate:    row.EndDate.Format(time.RFC3339),
			Active:     utils.IsTrue(row.Active),
		})
	}
	out.Total = len(out.Items)
	return out, nil
}

// auditAssignment writes a best-effort audit entry for an assignment attempt
func (f *DiscountFlowImpl) auditAssignment(ctx context.Context, assignment *models.ServiceDiscount, metadata *ClientMetadata, cause error) {
	action := models.AuditActionDiscountAssigned
	success := true
	var errorMessage *string
	if cause != nil {
		success = false
		msg := cause.Error()
		errorMessage = &msg
		if IsExclusiveDiscountConflict(cause) {
			action = models.AuditActionDiscountConflict
		}
	}

	meta, _ := json.Marshal(map[string]any{
		"service_id":  assignment.ServiceID,
		"discount_id": assignment.DiscountID,
		"exclusive":   utils.IsTrue(assignment.Exclusive),
	})

	entry := &models.AuditLog{
		Action:       action,
		Metadata:     meta,
		Success:      &success,
		ErrorMessage: errorMessage,
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
		log.Printf("failed to write discount audit entry: %v", err)
	}
}
