// Package testing provides test utilities and database setup for testing the reservation platform
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/andinotravel/reservas/models"
	"github.com/andinotravel/reservas/utils"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCustomer creates a test customer with the specified role
func (tf *TestFixtures) CreateTestCustomer(role models.CustomerRole) (*models.Customer, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%08d", rand.Intn(90000000)+10000000)
	mobile := fmt.Sprintf("+591%s", randomDigits)

	customer := &models.Customer{
		FirstName:    "Maria",
		LastName:     "Condori",
		Email:        fmt.Sprintf("maria.condori.%s.%s@example.com", role, randomDigits),
		Mobile:       &mobile,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	err = tf.DB.DB.Create(customer).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}

	return customer, nil
}

// CreateTestCategory creates a catalog category
func (tf *TestFixtures) CreateTestCategory(name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := tf.DB.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}
	return category, nil
}

// CreateTestService creates a visible service in the given category
func (tf *TestFixtures) CreateTestService(categoryID uint, title string, cost float64) (*models.Service, error) {
	service := &models.Service{
		Title:         title,
		Description:   "Full day excursion with bilingual guide",
		Type:          "TOUR",
		Cost:          decimal.NewFromFloat(cost),
		CategoryID:    categoryID,
		Days:          1,
		Included:      pq.StringArray{"transport", "guide"},
		PublicVisible: utils.ToPtr(true),
		Images:        pq.StringArray{},
	}
	if err := tf.DB.DB.Create(service).Error; err != nil {
		return nil, fmt.Errorf("failed to create test service: %w", err)
	}
	return service, nil
}

// CreateTestReservation creates a reservation for the customer with one line item
func (tf *TestFixtures) CreateTestReservation(customerID, serviceID uint, startDate time.Time, status models.ReservationStatus) (*models.Reservation, error) {
	reservation := &models.Reservation{
		CustomerID: customerID,
		StartDate:  startDate.UTC(),
		EndDate:    startDate.UTC().Add(24 * time.Hour),
		Status:     status,
		Total:      decimal.NewFromInt(350),
		Currency:   "BOB",
	}
	if err := tf.DB.DB.Create(reservation).Error; err != nil {
		return nil, fmt.Errorf("failed to create test reservation: %w", err)
	}

	item := &models.ReservationService{
		ReservationID: reservation.ID,
		ServiceID:     serviceID,
		Quantity:      1,
		UnitPrice:     decimal.NewFromInt(350),
		Currency:      "BOB",
	}
	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test reservation item: %w", err)
	}
	reservation.Items = []models.ReservationService{*item}

	return reservation, nil
}

// CreateTestRule creates an active reschedule rule with an integer value
func (tf *TestFixtures) CreateTestRule(kind models.RuleKind, appliesTo string, value int64, priority int) (*models.RescheduleRule, error) {
	rule := &models.RescheduleRule{
		Name:         fmt.Sprintf("%s for %s", kind, appliesTo),
		Kind:         kind,
		AppliesTo:    appliesTo,
		ValueInteger: &value,
		Active:       utils.ToPtr(true),
		Priority:     priority,
	}
	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test rule: %w", err)
	}
	return rule, nil
}

// CreateTestTextRule creates an active reschedule rule with a text value
func (tf *TestFixtures) CreateTestTextRule(kind models.RuleKind, appliesTo, value string, priority int) (*models.RescheduleRule, error) {
	rule := &models.RescheduleRule{
		Name:      fmt.Sprintf("%s for %s", kind, appliesTo),
		Kind:      kind,
		AppliesTo: appliesTo,
		ValueText: &value,
		Active:    utils.ToPtr(true),
		Priority:  priority,
	}
	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test rule: %w", err)
	}
	return rule, nil
}

// CreateTestDiscount creates an active percentage discount bounded to the given window
func (tf *TestFixtures) CreateTestDiscount(code string, start, end time.Time) (*models.Discount, error) {
	discount := &models.Discount{
		Name:       "Seasonal promotion",
		Percentage: decimal.NewFromInt(15),
		StartDate:  start.UTC(),
		EndDate:    end.UTC(),
		Active:     utils.ToPtr(true),
		Type:       models.BenefitPercentage,
		Value:      decimal.NewFromInt(15),
		Code:       code,
	}
	if err := tf.DB.DB.Create(discount).Error; err != nil {
		return nil, fmt.Errorf("failed to create test discount: %w", err)
	}
	return discount, nil
}

// CreateTestAssignment links a discount to a service
func (tf *TestFixtures) CreateTestAssignment(serviceID, discountID uint, exclusive bool) (*models.ServiceDiscount, error) {
	assignment := &models.ServiceDiscount{
		ServiceID:  serviceID,
		DiscountID: discountID,
		Exclusive:  utils.ToPtr(exclusive),
		Active:     utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test assignment: %w", err)
	}
	return assignment, nil
}

// CreateTestCoupon creates an active coupon with an optional validity window
func (tf *TestFixtures) CreateTestCoupon(code string, start, end *time.Time) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:      code,
		Type:      models.BenefitPercentage,
		Value:     decimal.NewFromInt(10),
		StartDate: start,
		EndDate:   end,
		Active:    utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(coupon).Error; err != nil {
		return nil, fmt.Errorf("failed to create test coupon: %w", err)
	}
	return coupon, nil
}

// CreateTestTicket creates a support ticket for the customer
func (tf *TestFixtures) CreateTestTicket(customerID uint, ticketType models.TicketType, subject string) (*models.SupportTicket, error) {
	ticket := &models.SupportTicket{
		CustomerID:  customerID,
		Type:        ticketType,
		Status:      models.TicketStatusPending,
		Priority:    models.TicketPriorityMedium,
		Subject:     subject,
		Description: "Created from fixtures",
	}
	if err := tf.DB.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}
	return ticket, nil
}

// CreateTestSupportConfig inserts the singleton support configuration row
func (tf *TestFixtures) CreateTestSupportConfig() (*models.SupportConfig, error) {
	config := &models.SupportConfig{
		ResponseHoursCritical: 1,
		ResponseHoursHigh:     4,
		ResponseHoursMedium:   12,
		ResponseHoursLow:      24,
		AutoAssign:            utils.ToPtr(true),
		MaxTicketsPerAgent:    utils.DefaultMaxTicketsPerAgent,
		EmailClient:           utils.ToPtr(true),
		EmailSupport:          utils.ToPtr(true),
		AutoCloseResolvedDays: utils.DefaultAutoCloseDays,
		ClientReminderDays:    2,
	}
	if err := tf.DB.DB.Create(config).Error; err != nil {
		return nil, fmt.Errorf("failed to create test support config: %w", err)
	}
	return config, nil
}

// CreateTestConfigEntry inserts a global config entry
func (tf *TestFixtures) CreateTestConfigEntry(key, rawValue string, kind models.ConfigValueKind) (*models.GlobalConfigEntry, error) {
	entry := &models.GlobalConfigEntry{
		Key:       key,
		RawValue:  rawValue,
		ValueKind: kind,
		Active:    utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create test config entry: %w", err)
	}
	return entry, nil
}
