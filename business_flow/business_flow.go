// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/andinotravel/reservas/app/dto"
	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
)

const RequestIDKey = "X-Request-ID"

// Clock supplies the current time to flows. Tests substitute a fixed clock.
type Clock func() time.Time

// SystemClock returns the current UTC time
func SystemClock() time.Time {
	return utils.UTCNow()
}

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToReservationDTO converts a reservation model to its response representation
func ToReservationDTO(reservation models.Reservation) dto.ReservationDTO {
	out := dto.ReservationDTO{
		ID:              reservation.ID,
		UUID:            reservation.UUID.String(),
		CustomerID:      reservation.CustomerID,
		Status:          string(reservation.Status),
		StartDate:       reservation.StartDate.Format(time.RFC3339),
		EndDate:         reservation.EndDate.Format(time.RFC3339),
		Total:           reservation.Total.StringFixed(2),
		Currency:        reservation.Currency,
		CouponID:        reservation.CouponID,
		RescheduleCount: reservation.RescheduleCount,
		CreatedAt:       reservation.CreatedAt.Format(time.RFC3339),
	}
	if reservation.OriginalStartDate != nil {
		s := reservation.OriginalStartDate.Format(time.RFC3339)
		out.OriginalStartDate = &s
	}
	for _, item := range reservation.Items {
		out.Items = append(out.Items, dto.ReservationItemDTO{
			ServiceID: item.ServiceID,
			Quantity:  int(item.Quantity),
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	return out
}

// ToSupportTicketItem converts a ticket model to its response representation
func ToSupportTicketItem(ticket models.SupportTicket) dto.SupportTicketItem {
	number := ""
	if ticket.TicketNumber != nil {
		number = *ticket.TicketNumber
	}
	return dto.SupportTicketItem{
		ID:              ticket.ID,
		TicketNumber:    number,
		Type:            string(ticket.Type),
		Status:          string(ticket.Status),
		Priority:        string(ticket.Priority),
		Subject:         ticket.Subject,
		CustomerID:      ticket.CustomerID,
		ReservationID:   ticket.ReservationID,
		AssignedAgentID: ticket.AssignedAgentID,
		CreatedAt:       ticket.CreatedAt.Format(time.RFC3339),
	}
}

// ToDiscountAssignmentItem converts an assignment model to its response representation
func ToDiscountAssignmentItem(assignment models.ServiceDiscount) dto.DiscountAssignmentItem {
	item := dto.DiscountAssignmentItem{
		ID:           assignment.ID,
		ServiceID:    assignment.ServiceID,
		DiscountID:   assignment.DiscountID,
		Exclusive:    utils.IsTrue(assignment.Exclusive),
		Active:       utils.IsTrue(assignment.Active),
		AssignedDate: assignment.AssignedDate.Format(time.RFC3339),
	}
	if assignment.Discount != nil {
		item.DiscountName = assignment.Discount.Name
	}
	return item
}
