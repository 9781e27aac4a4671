package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/app/services"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/repository"
	"github.com/redis/go-redis/v9"
)

// RescheduleFlow evaluates reschedule requests against the configured rule set
// and applies accepted ones
type RescheduleFlow interface {
	EvaluateReschedule(ctx context.Context, req *dto.RescheduleRequest, actorID uint, role models.CustomerRole, metadata *ClientMetadata) (*dto.RescheduleResponse, error)
	RuleValueFor(ctx context.Context, kind models.RuleKind, role models.CustomerRole) (*dto.RuleValueResponse, error)
	ListRules(ctx context.Context) (*dto.ListRulesResponse, error)
	ListHistory(ctx context.Context, reservationID uint) (*dto.ListRescheduleHistoryResponse, error)
}

// RescheduleFlowImpl implements RescheduleFlow
type RescheduleFlowImpl struct {
	reservationRepo repository.ReservationRepository
	ruleRepo        repository.RescheduleRuleRepository
	historyRepo     repository.RescheduleHistoryRepository
	customerRepo    repository.CustomerRepository
	auditRepo       repository.AuditLogRepository
	tx              repository.TxManager
	notifier        services.NotificationService
	clock           Clock
	rc              *redis.Client
	cacheTTL        time.Duration
}

func NewRescheduleFlow(
	reservationRepo repository.ReservationRepository,
	ruleRepo repository.RescheduleRuleRepository,
	historyRepo repository.RescheduleHistoryRepository,
	customerRepo repository.CustomerRepository,
	auditRepo repository.AuditLogRepository,
	tx repository.TxManager,
	notifier services.NotificationService,
	clock Clock,
	rc *redis.Client,
	cacheTTL time.Duration,
) RescheduleFlow {
	if clock == nil {
		clock = SystemClock
	}
	return &RescheduleFlowImpl{
		reservationRepo: reservationRepo,
		ruleRepo:        ruleRepo,
		historyRepo:     historyRepo,
		customerRepo:    customerRepo,
		auditRepo:       auditRepo,
		tx:              tx,
		notifier:        notifier,
		clock:           clock,
		rc:              rc,
		cacheTTL:        cacheTTL,
	}
}

// Weekday names accepted in blackout day lists, lowercased.
var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "miercoles": time.Wednesday,
	"thursday": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sabado": time.Saturday,
}

// EvaluateReschedule checks every applicable rule in a fixed order and, when
// all pass, applies the reschedule atomically. A rejection leaves the
// reservation untouched, so re-evaluating the same request yields the same
// outcome.
func (f *RescheduleFlowImpl) EvaluateReschedule(ctx context.Context, req *dto.RescheduleRequest, actorID uint, role models.CustomerRole, metadata *ClientMetadata) (*dto.RescheduleResponse, error) {
	rows, err := f.reservationRepo.ByFilter(ctx, models.ReservationFilter{ID: &req.ReservationID}, "", 1, 0)
	if err != nil {
		return nil, NewBusinessError("RESERVATION_LOOKUP_FAILED", "Failed to load reservation", err)
	}
	if len(rows) == 0 {
		return nil, NewBusinessError("RESERVATION_NOT_FOUND", "Reservation not found", ErrReservationNotFound)
	}
	reservation := rows[0]

	switch reservation.Status {
	case models.ReservationStatusCancelled, models.ReservationStatusCompleted:
		return nil, NewBusinessError("RESERVATION_NOT_MOVABLE", "Reservation can no longer be rescheduled", ErrReservationNotMovable)
	}

	newDate := req.NewStartDate.UTC()
	now := f.clock()

	for _, kind := range models.EvaluationOrder {
		rule, err := f.lookupRule(ctx, kind, role)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			// No constraint of this kind configured.
			continue
		}
		if err := f.applyRule(rule, kind, reservation, newDate, now); err != nil {
			f.recordDecision(ctx, reservation, actorID, metadata, "rejected", kind, err)
			return nil, err
		}
	}

	previousDate := reservation.StartDate
	var updated *models.Reservation

	err = f.tx.Do(ctx, func(txCtx context.Context) error {
		locked, err := f.reservationRepo.ByIDForUpdate(txCtx, reservation.ID)
		if err != nil {
			return NewBusinessError("RESERVATION_LOCK_FAILED", "Failed to lock reservation", err)
		}
		if locked == nil {
			return NewBusinessError("RESERVATION_NOT_FOUND", "Reservation not found", ErrReservationNotFound)
		}
		if locked.RescheduleCount != reservation.RescheduleCount {
			return NewBusinessError("CONCURRENT_RESCHEDULE", "Reservation was rescheduled concurrently", ErrConcurrencyConflict)
		}

		previousDate = locked.StartDate
		duration := locked.EndDate.Sub(locked.StartDate)

		history := &models.RescheduleHistory{
			ReservationID:    locked.ID,
			PreviousDate:     previousDate,
			NewDate:          newDate,
			Reason:           req.Reason,
			RescheduledByID:  &actorID,
			NotificationSent: false,
		}
		if err := f.historyRepo.Save(txCtx, history); err != nil {
			return NewBusinessError("HISTORY_WRITE_FAILED", "Failed to record reschedule history", err)
		}

		if locked.OriginalStartDate == nil {
			original := previousDate
			locked.OriginalStartDate = &original
		}
		locked.StartDate = newDate
		locked.EndDate = newDate.Add(duration)
		locked.RescheduledTo = &newDate
		locked.RescheduleCount++
		locked.Status = models.ReservationStatusRescheduled
		if req.Reason != "" {
			reason := req.Reason
			locked.RescheduleReason = &reason
		}
		locked.RescheduledByID = &actorID

		if err := f.reservationRepo.Update(txCtx, locked); err != nil {
			return NewBusinessError("RESERVATION_UPDATE_FAILED", "Failed to update reservation", err)
		}

		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.recordDecision(ctx, updated, actorID, metadata, "accepted", "", nil)
	f.notifyReschedule(ctx, updated, previousDate)

	return &dto.RescheduleResponse{
		Message:         "Reservation rescheduled",
		ReservationID:   updated.ID,
		ReservationUUID: updated.UUID.String(),
		PreviousDate:    previousDate.Format(time.RFC3339),
		NewDate:         updated.StartDate.Format(time.RFC3339),
		RescheduleCount: updated.RescheduleCount,
		Status:          string(updated.Status),
	}, nil
}

// applyRule checks a single rule against the requested date. A nil return
// means the rule passes.
func (f *RescheduleFlowImpl) applyRule(rule *models.RescheduleRule, kind models.RuleKind, reservation *models.Reservation, newDate, now time.Time) error {
	value := rule.Value()

	switch kind {
	case models.RuleMinLeadTime:
		hours, ok := value.Int()
		if !ok {
			return nil
		}
		if newDate.Sub(now) < time.Duration(hours)*time.Hour {
			return f.rejection(rule, kind, ErrMinLeadTimeViolated,
				"reschedules require at least %d hours of notice", hours)
		}

	case models.RuleMaxLeadTime:
		hours, ok := value.Int()
		if !ok {
			return nil
		}
		if newDate.Sub(now) > time.Duration(hours)*time.Hour {
			return f.rejection(rule, kind, ErrMaxLeadTimeViolated,
				"reschedules may be at most %d hours ahead", hours)
		}

	case models.RuleMaxReschedules:
		limit, ok := value.Int()
		if !ok {
			return nil
		}
		if int64(reservation.RescheduleCount) >= limit {
			return f.rejection(rule, kind, ErrRescheduleLimitReached,
				"reservation already rescheduled the maximum of %d times", limit)
		}

	case models.RuleBlackoutDays:
		for _, name := range value.List() {
			day, ok := weekdayNames[strings.ToLower(name)]
			if !ok {
				continue
			}
			if newDate.Weekday() == day {
				return f.rejection(rule, kind, ErrBlackoutDay,
					"new date falls on a blocked day (%s)", name)
			}
		}

	case models.RuleBlackoutHours:
		hour := newDate.Hour()
		for _, window := range value.List() {
			from, to, ok := parseHourRange(window)
			if !ok {
				continue
			}
			blocked := hour >= from && hour <= to
			if from > to {
				// Range crosses midnight, e.g. "22-06".
				blocked = hour >= from || hour <= to
			}
			if blocked {
				return f.rejection(rule, kind, ErrBlackoutHour,
					"new date falls in the blocked hour range %s", window)
			}
		}

	case models.RuleRestrictedServices:
		restricted := make(map[uint]struct{})
		for _, raw := range value.List() {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				continue
			}
			restricted[uint(id)] = struct{}{}
		}
		for _, item := range reservation.Items {
			if _, blocked := restricted[item.ServiceID]; blocked {
				return f.rejection(rule, kind, ErrRestrictedService,
					"service %d cannot be rescheduled", item.ServiceID)
			}
		}
	}

	return nil
}

// rejection builds the rejection error, preferring the rule's configured
// message over the generated default.
func (f *RescheduleFlowImpl) rejection(rule *models.RescheduleRule, kind models.RuleKind, sentinel error, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if rule.ErrorMessage != nil && *rule.ErrorMessage != "" {
		message = *rule.ErrorMessage
	}
	return NewBusinessError("RESCHEDULE_REJECTED_"+string(kind), message, sentinel)
}

// parseHourRange parses "HH-HH" into inclusive hour bounds. A from greater
// than to means the range wraps past midnight.
func parseHourRange(s string) (int, int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || from < 0 || from > 23 {
		return 0, 0, false
	}
	to, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || to < 0 || to > 23 {
		return 0, 0, false
	}
	return from, to, true
}

// lookupRule resolves the winning rule for a kind: the role-specific rule when
// one exists, the "ALL" rule otherwise. Validity windows are not filtered here.
func (f *RescheduleFlowImpl) lookupRule(ctx context.Context, kind models.RuleKind, role models.CustomerRole) (*models.RescheduleRule, error) {
	if rule, ok := f.cachedRule(ctx, kind, string(role)); ok {
		return rule, nil
	}

	rule, err := f.ruleRepo.ActiveRule(ctx, kind, string(role))
	if err != nil {
		return nil, NewBusinessError("RULE_LOOKUP_FAILED", "Failed to load reschedule rule", err)
	}
	if rule == nil {
		rule, err = f.ruleRepo.ActiveRule(ctx, kind, models.RoleAll)
		if err != nil {
			return nil, NewBusinessError("RULE_LOOKUP_FAILED", "Failed to load reschedule rule", err)
		}
	}

	f.cacheRule(ctx, kind, string(role), rule)
	return rule, nil
}

// cachedRule returns (rule, true) on a cache hit. A cached empty payload
// represents a known-absent rule.
func (f *RescheduleFlowImpl) cachedRule(ctx context.Context, kind models.RuleKind, role string) (*models.RescheduleRule, bool) {
	if f.rc == nil {
		return nil, false
	}
	bs, err := f.rc.Get(ctx, ruleCacheKey(kind, role)).Bytes()
	if err != nil {
		return nil, false
	}
	if len(bs) == 0 {
		return nil, true
	}
	var rule models.RescheduleRule
	if err := json.Unmarshal(bs, &rule); err != nil {
		return nil, false
	}
	return &rule, true
}

func (f *RescheduleFlowImpl) cacheRule(ctx context.Context, kind models.RuleKind, role string, rule *models.RescheduleRule) {
	if f.rc == nil {
		return
	}
	var bs []byte
	if rule != nil {
		encoded, err := json.Marshal(rule)
		if err != nil {
			return
		}
		bs = encoded
	}
	_ = f.rc.Set(ctx, ruleCacheKey(kind, role), bs, f.cacheTTL).Err()
}

func ruleCacheKey(kind models.RuleKind, role string) string {
	return fmt.Sprintf("reservas:rule:%s:%s", kind, role)
}

// recordDecision updates metrics and writes a best-effort audit entry.
func (f *RescheduleFlowImpl) recordDecision(ctx context.Context, reservation *models.Reservation, actorID uint, metadata *ClientMetadata, outcome string, kind models.RuleKind, cause error) {
	ruleKind := "none"
	if kind != "" {
		ruleKind = string(kind)
	}
	rescheduleDecisions.WithLabelValues(outcome, ruleKind).Inc()

	action := models.AuditActionRescheduleAccepted
	success := true
	var errorMessage *string
	if outcome != "accepted" {
		action = models.AuditActionRescheduleRejected
		success = false
		if cause != nil {
			msg := cause.Error()
			errorMessage = &msg
		}
	}

	meta, _ := json.Marshal(map[string]any{
		"reservation_id": reservation.ID,
		"outcome":        outcome,
		"rule_kind":      ruleKind,
	})

	entry := &models.AuditLog{
		CustomerID:   &actorID,
		Action:       action,
		Metadata:     meta,
		Success:      &success,
		ErrorMessage: errorMessage,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
	}
	if err := f.auditRepo.Save(ctx, entry); err != nil {
		log.Printf("failed to write reschedule audit entry: %v", err)
	}
}

// notifyReschedule emails the customer about the accepted reschedule. Failures
// are logged, never propagated.
func (f *RescheduleFlowImpl) notifyReschedule(ctx context.Context, reservation *models.Reservation, previousDate time.Time) {
	customer, err := f.customerRepo.ByID(ctx, reservation.CustomerID)
	if err != nil || customer == nil {
		log.Printf("failed to load customer %d for reschedule notification: %v", reservation.CustomerID, err)
		return
	}

	subject := "Tu reserva fue reprogramada"
	body := fmt.Sprintf("Hola %s, tu reserva %s fue movida del %s al %s.",
		customer.FullName(), reservation.UUID.String(),
		previousDate.Format("2006-01-02 15:04"), reservation.StartDate.Format("2006-01-02 15:04"))

	if err := f.notifier.SendEmail(customer.Email, subject, body); err != nil {
		log.Printf("failed to send reschedule notification for reservation %d: %v", reservation.ID, err)
		return
	}

	// Flag the latest history row as notified, best-effort.
	rows, err := f.historyRepo.ListByReservation(ctx, reservation.ID)
	if err != nil || len(rows) == 0 {
		return
	}
	latest := rows[0]
	latest.NotificationSent = true
	if err := f.historyRepo.Update(ctx, latest); err != nil {
		log.Printf("failed to flag reschedule notification for reservation %d: %v", reservation.ID, err)
	}
}

// RuleValueFor resolves the effective typed value of a rule kind for a role
func (f *RescheduleFlowImpl) RuleValueFor(ctx context.Context, kind models.RuleKind, role models.CustomerRole) (*dto.RuleValueResponse, error) {
	if !kind.Valid() {
		return nil, NewBusinessErrorf("UNKNOWN_RULE_KIND", "Unknown rule kind %q", ErrRuleKindUnknown, string(kind))
	}

	rule, err := f.lookupRule(ctx, kind, role)
	if err != nil {
		return nil, err
	}

	out := &dto.RuleValueResponse{
		Kind:      string(kind),
		AppliesTo: string(role),
		ValueKind: string(models.RuleValueNone),
	}
	if rule == nil {
		return out, nil
	}

	out.RuleID = &rule.ID
	out.RuleName = &rule.Name
	out.AppliesTo = rule.AppliesTo
	priority := rule.Priority
	out.Priority = &priority

	value := rule.Value()
	out.ValueKind = string(value.Kind)
	switch value.Kind {
	case models.RuleValueInteger:
		out.Value = value.Integer
	case models.RuleValueDecimal:
		out.Value = value.Decimal.String()
	case models.RuleValueText:
		out.Value = value.Text
	case models.RuleValueBoolean:
		out.Value = value.Boolean
	}
	return out, nil
}

// ListRules returns every active rule with its resolved value
func (f *RescheduleFlowImpl) ListRules(ctx context.Context) (*dto.ListRulesResponse, error) {
	rules, err := f.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("RULE_LIST_FAILED", "Failed to list reschedule rules", err)
	}

	out := &dto.ListRulesResponse{Items: make([]dto.RuleItem, 0, len(rules))}
	for _, rule := range rules {
		value := rule.Value()
		item := dto.RuleItem{
			ID:           rule.ID,
			Name:         rule.Name,
			Kind:         string(rule.Kind),
			AppliesTo:    rule.AppliesTo,
			ValueKind:    string(value.Kind),
			Priority:     rule.Priority,
			Active:       rule.Active == nil || *rule.Active,
			ErrorMessage: rule.ErrorMessage,
		}
		switch value.Kind {
		case models.RuleValueInteger:
			item.Value = value.Integer
		case models.RuleValueDecimal:
			item.Value = value.Decimal.String()
		case models.RuleValueText:
			item.Value = value.Text
		case models.RuleValueBoolean:
			item.Value = value.Boolean
		}
		out.Items = append(out.Items, item)
	}
	out.Total = len(out.Items)
	return out, nil
}

// ListHistory returns the reschedule history of a reservation, newest first
func (f *RescheduleFlowImpl) ListHistory(ctx context.Context, reservationID uint) (*dto.ListRescheduleHistoryResponse, error) {
	reservation, err := f.reservationRepo.ByID(ctx, reservationID)
	if err != nil {
		return nil, NewBusinessError("RESERVATION_LOOKUP_FAILED", "Failed to load reservation", err)
	}
	if reservation == nil {
		return nil, NewBusinessError("RESERVATION_NOT_FOUND", "Reservation not found", ErrReservationNotFound)
	}

	rows, err := f.historyRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, NewBusinessError("HISTORY_LIST_FAILED", "Failed to list reschedule history", err)
	}

	out := &dto.ListRescheduleHistoryResponse{Items: make([]dto.RescheduleHistoryItem, 0, len(rows))}
	for _, row := range rows {
		out.Items = append(out.Items, dto.RescheduleHistoryItem{
			ID:               row.ID,
			ReservationID:    row.ReservationID,
			PreviousDate:     row.PreviousDate.Format(time.RFC3339),
			NewDate:          row.NewDate.Format(time.RFC3339),
			Reason:           row.Reason,
			RescheduledByID:  row.RescheduledByID,
			NotificationSent: row.NotificationSent,
			CreatedAt:        row.CreatedAt.Format(time.RFC3339),
		})
	}
	out.Total = len(out.Items)
	return out, nil
}
