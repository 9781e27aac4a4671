// Package businessflow contains the core business logic and use cases for reservation workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Customer-related errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrAccountInactive  = errors.New("account is inactive")

	// Reservation-related errors
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrReservationNotOwned      = errors.New("reservation does not belong to customer")
	ErrReservationNotMovable    = errors.New("reservation status does not allow rescheduling")
	ErrReservationNotCancelable = errors.New("reservation status does not allow cancellation")
	ErrServiceNotFound          = errors.New("service not found")
	ErrEmptyReservation         = errors.New("reservation requires at least one service")
	ErrCouponNotFound           = errors.New("coupon not found")
	ErrCouponNotValid           = errors.New("coupon is not valid at this date")

	// Reschedule policy errors
	ErrMinLeadTimeViolated    = errors.New("new date is too close to now")
	ErrMaxLeadTimeViolated    = errors.New("new date is too far ahead")
	ErrRescheduleLimitReached = errors.New("reschedule limit reached")
	ErrBlackoutDay            = errors.New("new date falls on a blocked day")
	ErrBlackoutHour           = errors.New("new date falls in a blocked hour range")
	ErrRestrictedService      = errors.New("reservation contains a restricted service")
	ErrRuleKindUnknown        = errors.New("unknown rule kind")

	// Discount-related errors
	ErrDiscountNotFound          = errors.New("discount not found")
	ErrAssignmentNotFound        = errors.New("discount assignment not found")
	ErrExclusiveDiscountConflict = errors.New("exclusive discount window overlaps an existing assignment")

	// Support-related errors
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketClosed   = errors.New("ticket is closed")

	// Infrastructure errors
	ErrConcurrencyConflict = errors.New("concurrent modification, retry the operation")
)

// BusinessError wraps errors with business context
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewBusinessErrorf creates a new business error with a formatted message
func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// Error checking helpers

func IsCustomerNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}

func IsReservationNotFound(err error) bool {
	return errors.Is(err, ErrReservationNotFound)
}

func IsRescheduleRejected(err error) bool {
	return errors.Is(err, ErrMinLeadTimeViolated) ||
		errors.Is(err, ErrMaxLeadTimeViolated) ||
		errors.Is(err, ErrRescheduleLimitReached) ||
		errors.Is(err, ErrBlackoutDay) ||
		errors.Is(err, ErrBlackoutHour) ||
		errors.Is(err, ErrRestrictedService)
}

func IsExclusiveDiscountConflict(err error) bool {
	return errors.Is(err, ErrExclusiveDiscountConflict)
}

func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

func IsTicketNotFound(err error) bool {
	return errors.Is(err, ErrTicketNotFound)
}
