package businessflow

import (
	"context"
	"sort"
	"time"

	"github.com/andinotravel/reservas/models"
)

// The fakes below back the flow tests with in-memory state so the business
// rules can be exercised without a database. Only the methods the flows call
// have real behavior.

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// --- reservations ---

type fakeReservationRepo struct {
	rows   map[uint]*models.Reservation
	nextID uint
	// lockHook runs against the stored row before ByIDForUpdate returns,
	// simulating a concurrent writer.
	lockHook func(*models.Reservation)
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{rows: make(map[uint]*models.Reservation)}
}

func copyReservation(r *models.Reservation) *models.Reservation {
	out := *r
	out.Items = append([]models.ReservationService(nil), r.Items...)
	return &out
}

func (f *fakeReservationRepo) ByID(ctx context.Context, id uint) (*models.Reservation, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return copyReservation(row), nil
}

func (f *fakeReservationRepo) ByFilter(ctx context.Context, filter models.ReservationFilter, orderBy string, limit, offset int) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for _, row := range f.rows {
		if filter.ID != nil && row.ID != *filter.ID {
			continue
		}
		if filter.CustomerID != nil && row.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		out = append(out, copyReservation(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeReservationRepo) Save(ctx context.Context, entity *models.Reservation) error {
	if entity.ID == 0 {
		f.nextID++
		entity.ID = f.nextID
	}
	f.rows[entity.ID] = copyReservation(entity)
	return nil
}

func (f *fakeReservationRepo) SaveBatch(ctx context.Context, entities []*models.Reservation) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeReservationRepo) Update(ctx context.Context, entity *models.Reservation) error {
	f.rows[entity.ID] = copyReservation(entity)
	return nil
}

func (f *fakeReservationRepo) Count(ctx context.Context, filter models.ReservationFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeReservationRepo) ByUUID(ctx context.Context, uuid string) (*models.Reservation, error) {
	for _, row := range f.rows {
		if row.UUID.String() == uuid {
			return copyReservation(row), nil
		}
	}
	return nil, nil
}

func (f *fakeReservationRepo) ByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	if f.lockHook != nil {
		f.lockHook(row)
	}
	return copyReservation(row), nil
}

func (f *fakeReservationRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Reservation, error) {
	return f.ByFilter(ctx, models.ReservationFilter{CustomerID: &customerID}, "", limit, offset)
}

// --- reschedule rules ---

type fakeRuleRepo struct {
	rules  []*models.RescheduleRule
	nextID uint
}

func newFakeRuleRepo() *fakeRuleRepo { return &fakeRuleRepo{} }

func (f *fakeRuleRepo) add(rule *models.RescheduleRule) *models.RescheduleRule {
	if rule.ID == 0 {
		f.nextID++
		rule.ID = f.nextID
	}
	f.rules = append(f.rules, rule)
	return rule
}

func (f *fakeRuleRepo) ByID(ctx context.Context, id uint) (*models.RescheduleRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRuleRepo) ByFilter(ctx context.Context, filter models.RescheduleRuleFilter, orderBy string, limit, offset int) ([]*models.RescheduleRule, error) {
	var out []*models.RescheduleRule
	for _, r := range f.rules {
		if filter.Kind != nil && r.Kind != *filter.Kind {
			continue
		}
		if filter.AppliesTo != nil && r.AppliesTo != *filter.AppliesTo {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRuleRepo) Save(ctx context.Context, entity *models.RescheduleRule) error {
	f.add(entity)
	return nil
}

func (f *fakeRuleRepo) SaveBatch(ctx context.Context, entities []*models.RescheduleRule) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, entity *models.RescheduleRule) error { return nil }

func (f *fakeRuleRepo) Count(ctx context.Context, filter models.RescheduleRuleFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeRuleRepo) ActiveRule(ctx context.Context, kind models.RuleKind, appliesTo string) (*models.RescheduleRule, error) {
	var best *models.RescheduleRule
	for _, r := range f.rules {
		if r.Kind != kind || r.AppliesTo != appliesTo {
			continue
		}
		if r.Active != nil && !*r.Active {
			continue
		}
		if best == nil || r.Priority > best.Priority ||
			(r.Priority == best.Priority && r.CreatedAt.After(best.CreatedAt)) {
			best = r
		}
	}
	return best, nil
}

func (f *fakeRuleRepo) ListActive(ctx context.Context) ([]*models.RescheduleRule, error) {
	var out []*models.RescheduleRule
	for _, r := range f.rules {
		if r.Active == nil || *r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- reschedule history ---

type fakeHistoryRepo struct {
	rows   []*models.RescheduleHistory
	nextID uint
}

func newFakeHistoryRepo() *fakeHistoryRepo { return &fakeHistoryRepo{} }

func (f *fakeHistoryRepo) ByID(ctx context.Context, id uint) (*models.RescheduleHistory, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeHistoryRepo) ByFilter(ctx context.Context, filter models.RescheduleHistoryFilter, orderBy string, limit, offset int) ([]*models.RescheduleHistory, error) {
	var out []*models.RescheduleHistory
	for _, r := range f.rows {
		if filter.ReservationID != nil && r.ReservationID != *filter.ReservationID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeHistoryRepo) Save(ctx context.Context, entity *models.RescheduleHistory) error {
	if entity.ID == 0 {
		f.nextID++
		entity.ID = f.nextID
	}
	f.rows = append(f.rows, entity)
	return nil
}

func (f *fakeHistoryRepo) SaveBatch(ctx context.Context, entities []*models.RescheduleHistory) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeHistoryRepo) Update(ctx context.Context, entity *models.RescheduleHistory) error {
	for i, r := range f.rows {
		if r.ID == entity.ID {
			f.rows[i] = entity
		}
	}
	return nil
}

func (f *fakeHistoryRepo) Count(ctx context.Context, filter models.RescheduleHistoryFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeHistoryRepo) ListByReservation(ctx context.Context, reservationID uint) ([]*models.RescheduleHistory, error) {
	rows, _ := f.ByFilter(ctx, models.RescheduleHistoryFilter{ReservationID: &reservationID}, "", 0, 0)
	// Newest first.
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows, nil
}

func (f *fakeHistoryRepo) CountByReservation(ctx context.Context, reservationID uint) (int64, error) {
	rows, _ := f.ListByReservation(ctx, reservationID)
	return int64(len(rows)), nil
}

func (f *fakeHistoryRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*models.RescheduleHistory, error) {
	var out []*models.RescheduleHistory
	for _, r := range f.rows {
		if r.CreatedAt.Before(from) || r.CreatedAt.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// --- customers ---

type fakeCustomerRepo struct {
	rows   map[uint]*models.Customer
	nextID uint
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{rows: make(map[uint]*models.Customer)}
}

func (f *fakeCustomerRepo) add(c *models.Customer) *models.Customer {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	}
	f.rows[c.ID] = c
	return c
}

func (f *fakeCustomerRepo) ByID(ctx context.Context, id uint) (*models.Customer, error) {
	return f.rows[id], nil
}

func (f *fakeCustomerRepo) ByFilter(ctx context.Context, filter models.CustomerFilter, orderBy string, limit, offset int) ([]*models.Customer, error) {
	var out []*models.Customer
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCustomerRepo) Save(ctx context.Context, entity *models.Customer) error {
	f.add(entity)
	return nil
}

func (f *fakeCustomerRepo) SaveBatch(ctx context.Context, entities []*models.Customer) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, entity *models.Customer) error {
	f.rows[entity.ID] = entity
	return nil
}

func (f *fakeCustomerRepo) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeCustomerRepo) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, r := range f.rows {
		if r.Email == email {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) ByUUID(ctx context.Context, uuid string) (*models.Customer, error) {
	for _, r := range f.rows {
		if r.UUID.String() == uuid {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) ListActiveByRole(ctx context.Context, role models.CustomerRole) ([]*models.Customer, error) {
	var out []*models.Customer
	for _, r := range f.rows {
		if r.Role != role {
			continue
		}
		if r.IsActive != nil && !*r.IsActive {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- audit log ---

type fakeAuditRepo struct {
	entries []*models.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (f *fakeAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	entity.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, entity)
	return nil
}

func (f *fakeAuditRepo) SaveBatch(ctx context.Context, entities []*models.AuditLog) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAuditRepo) Update(ctx context.Context, entity *models.AuditLog) error { return nil }

func (f *fakeAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	return int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	var out []*models.AuditLog
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- services ---

type fakeServiceRepo struct {
	rows   map[uint]*models.Service
	nextID uint
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{rows: make(map[uint]*models.Service)}
}

func (f *fakeServiceRepo) add(s *models.Service) *models.Service {
	if s.ID == 0 {
		f.nextID++
		s.ID = f.nextID
	}
	f.rows[s.ID] = s
	return s
}

func (f *fakeServiceRepo) ByID(ctx context.Context, id uint) (*models.Service, error) {
	return f.rows[id], nil
}

func (f *fakeServiceRepo) ByFilter(ctx context.Context, filter models.ServiceFilter, orderBy string, limit, offset int) ([]*models.Service, error) {
	var out []*models.Service
	for _, r := range f.rows {
		if filter.ID != nil && r.ID != *filter.ID {
			continue
		}
		if filter.CategoryID != nil && r.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.PublicVisible != nil {
			visible := r.PublicVisible == nil || *r.PublicVisible
			if visible != *filter.PublicVisible {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeServiceRepo) Save(ctx context.Context, entity *models.Service) error {
	f.add(entity)
	return nil
}

func (f *fakeServiceRepo) SaveBatch(ctx context.Context, entities []*models.Service) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, entity *models.Service) error {
	f.rows[entity.ID] = entity
	return nil
}

func (f *fakeServiceRepo) Count(ctx context.Context, filter models.ServiceFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeServiceRepo) ByIDForUpdate(ctx context.Context, id uint) (*models.Service, error) {
	return f.rows[id], nil
}

func (f *fakeServiceRepo) ListVisible(ctx context.Context, limit, offset int) ([]*models.Service, error) {
	visible := true
	return f.ByFilter(ctx, models.ServiceFilter{PublicVisible: &visible}, "", limit, offset)
}

// --- discounts ---

type fakeDiscountRepo struct {
	rows   map[uint]*models.Discount
	nextID uint
}

func newFakeDiscountRepo() *fakeDiscountRepo {
	return &fakeDiscountRepo{rows: make(map[uint]*models.Discount)}
}

func (f *fakeDiscountRepo) add(d *models.Discount) *models.Discount {
	if d.ID == 0 {
		f.nextID++
		d.ID = f.nextID
	}
	f.rows[d.ID] = d
	return d
}

func (f *fakeDiscountRepo) ByID(ctx context.Context, id uint) (*models.Discount, error) {
	return f.rows[id], nil
}

func (f *fakeDiscountRepo) ByFilter(ctx context.Context, filter models.DiscountFilter, orderBy string, limit, offset int) ([]*models.Discount, error) {
	var out []*models.Discount
	for _, r := range f.rows {
		if filter.Active != nil {
			active := r.Active == nil || *r.Active
			if active != *filter.Active {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDiscountRepo) Save(ctx context.Context, entity *models.Discount) error {
	f.add(entity)
	return nil
}

func (f *fakeDiscountRepo) SaveBatch(ctx context.Context, entities []*models.Discount) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeDiscountRepo) Update(ctx context.Context, entity *models.Discount) error {
	f.rows[entity.ID] = entity
	return nil
}

func (f *fakeDiscountRepo) Count(ctx context.Context, filter models.DiscountFilter) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeDiscountRepo) ByCode(ctx context.Context, code string) (*models.Discount, error) {
	for _, r := range f.rows {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

// --- service discount assignments ---

type fakeAssignmentRepo struct {
	rows   []*models.ServiceDiscount
	nextID uint
}

func newFakeAssignmentRepo() *fakeAssignmentRepo { return &fakeAssignmentRepo{} }

func (f *fakeAssignmentRepo) ByID(ctx context.Context, id uint) (*models.ServiceDiscount, error) {
	for _, r := range f.rows {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) ByFilter(ctx context.Context, filter models.ServiceDiscountFilter, orderBy string, limit, offset int) ([]*models.ServiceDiscount, error) {
	var out []*models.ServiceDiscount
	for _, r := range f.rows {
		if filter.ServiceID != nil && r.ServiceID != *filter.ServiceID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Save(ctx context.Context, entity *models.ServiceDiscount) error {
	if entity.ID == 0 {
		f.nextID++
		entity.ID = f.nextID
	}
	stored := *entity
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeAssignmentRepo) SaveBatch(ctx context.Context, entities []*models.ServiceDiscount) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, entity *models.ServiceDiscount) error {
	for i, r := range f.rows {
		if r.ID == entity.ID {
			stored := *entity
			f.rows[i] = &stored
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) Count(ctx context.Context, filter models.ServiceDiscountFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeAssignmentRepo) ListActiveByService(ctx context.Context, serviceID uint) ([]*models.ServiceDiscount, error) {
	var out []*models.ServiceDiscount
	for _, r := range f.rows {
		if r.ServiceID != serviceID {
			continue
		}
		if r.Active != nil && !*r.Active {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

// --- support tickets ---

type fakeTicketRepo struct {
	rows   map[uint]*models.SupportTicket
	nextID uint
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{rows: make(map[uint]*models.SupportTicket)}
}

func (f *fakeTicketRepo) ByID(ctx context.Context, id uint) (*models.SupportTicket, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	out := *row
	return &out, nil
}

func (f *fakeTicketRepo) ByFilter(ctx context.Context, filter models.SupportTicketFilter, orderBy string, limit, offset int) ([]*models.SupportTicket, error) {
	var out []*models.SupportTicket
	for _, r := range f.rows {
		if filter.CustomerID != nil && r.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTicketRepo) Save(ctx context.Context, entity *models.SupportTicket) error {
	if entity.ID == 0 {
		f.nextID++
		entity.ID = f.nextID
	}
	stored := *entity
	f.rows[entity.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) SaveBatch(ctx context.Context, entities []*models.SupportTicket) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, entity *models.SupportTicket) error {
	stored := *entity
	f.rows[entity.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) Count(ctx context.Context, filter models.SupportTicketFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeTicketRepo) ByTicketNumber(ctx context.Context, number string) (*models.SupportTicket, error) {
	for _, r := range f.rows {
		if r.TicketNumber != nil && *r.TicketNumber == number {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketRepo) CountOpenByAgent(ctx context.Context, agentID uint) (int64, error) {
	var n int64
	for _, r := range f.rows {
		if r.AssignedAgentID != nil && *r.AssignedAgentID == agentID && r.Status.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (f *fakeTicketRepo) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.SupportTicket, error) {
	return f.ByFilter(ctx, models.SupportTicketFilter{CustomerID: &customerID}, "", limit, offset)
}

// --- support messages ---

type fakeMessageRepo struct {
	rows   []*models.SupportMessage
	nextID uint
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (f *fakeMessageRepo) ByID(ctx context.Context, id uint) (*models.SupportMessage, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) ByFilter(ctx context.Context, filter models.SupportMessageFilter, orderBy string, limit, offset int) ([]*models.SupportMessage, error) {
	var out []*models.SupportMessage
	for _, r := range f.rows {
		if filter.TicketID != nil && r.TicketID != *filter.TicketID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeMessageRepo) Save(ctx context.Context, entity *models.SupportMessage) error {
	if entity.ID == 0 {
		f.nextID++
		entity.ID = f.nextID
	}
	f.rows = append(f.rows, entity)
	return nil
}

func (f *fakeMessageRepo) SaveBatch(ctx context.Context, entities []*models.SupportMessage) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMessageRepo) Update(ctx context.Context, entity *models.SupportMessage) error { return nil }

func (f *fakeMessageRepo) Count(ctx context.Context, filter models.SupportMessageFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeMessageRepo) ListByTicket(ctx context.Context, ticketID uint) ([]*models.SupportMessage, error) {
	return f.ByFilter(ctx, models.SupportMessageFilter{TicketID: &ticketID}, "", 0, 0)
}

// --- support config ---

type fakeSupportConfigRepo struct {
	cfg *models.SupportConfig
}

func (f *fakeSupportConfigRepo) Get(ctx context.Context) (*models.SupportConfig, error) {
	return f.cfg, nil
}

func (f *fakeSupportConfigRepo) Save(ctx context.Context, cfg *models.SupportConfig) error {
	f.cfg = cfg
	return nil
}

// --- categories ---

type fakeCategoryRepo struct {
	rows   []*models.Category
	nextID uint
}

func newFakeCategoryRepo() *fakeCategoryRepo { return &fakeCategoryRepo{} }

func (f *fakeCategoryRepo) add(c *models.Category) *models.Category {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	}
	f.rows = append(f.rows, c)
	return c
}

func (f *fakeCategoryRepo) ByID(ctx context.Context, id uint) (*models.Category, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	out := append([]*models.Category(nil), f.rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) Save(ctx context.Context, entity *models.Category) error {
	f.add(entity)
	return nil
}

func (f *fakeCategoryRepo) SaveBatch(ctx context.Context, entities []*models.Category) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, entity *models.Category) error { return nil }

func (f *fakeCategoryRepo) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	return int64(len(f.rows)), nil
}

// --- tour packages ---

type fakePackageRepo struct {
	rows   []*models.TourPackage
	nextID uint
}

func newFakePackageRepo() *fakePackageRepo { return &fakePackageRepo{} }

func (f *fakePackageRepo) add(p *models.TourPackage) *models.TourPackage {
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
	}
	f.rows = append(f.rows, p)
	return p
}

func (f *fakePackageRepo) ByID(ctx context.Context, id uint) (*models.TourPackage, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakePackageRepo) ByFilter(ctx context.Context, filter models.TourPackageFilter, orderBy string, limit, offset int) ([]*models.TourPackage, error) {
	var out []*models.TourPackage
	for _, r := range f.rows {
		if filter.ID != nil && r.ID != *filter.ID {
			continue
		}
		if filter.CategoryID != nil && r.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, r)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePackageRepo) Save(ctx context.Context, entity *models.TourPackage) error {
	f.add(entity)
	return nil
}

func (f *fakePackageRepo) SaveBatch(ctx context.Context, entities []*models.TourPackage) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakePackageRepo) Update(ctx context.Context, entity *models.TourPackage) error { return nil }

func (f *fakePackageRepo) Count(ctx context.Context, filter models.TourPackageFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

// --- global config ---

type fakeGlobalConfigRepo struct {
	rows   []*models.GlobalConfigEntry
	nextID uint
}

func newFakeGlobalConfigRepo() *fakeGlobalConfigRepo { return &fakeGlobalConfigRepo{} }

func (f *fakeGlobalConfigRepo) add(e *models.GlobalConfigEntry) *models.GlobalConfigEntry {
	if e.ID == 0 {
		f.nextID++
		e.ID = f.nextID
	}
	f.rows = append(f.rows, e)
	return e
}

func (f *fakeGlobalConfigRepo) ByID(ctx context.Context, id uint) (*models.GlobalConfigEntry, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeGlobalConfigRepo) ByFilter(ctx context.Context, filter models.GlobalConfigFilter, orderBy string, limit, offset int) ([]*models.GlobalConfigEntry, error) {
	var out []*models.GlobalConfigEntry
	for _, r := range f.rows {
		if filter.Key != nil && r.Key != *filter.Key {
			continue
		}
		if filter.Active != nil {
			active := r.Active == nil || *r.Active
			if active != *filter.Active {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeGlobalConfigRepo) Save(ctx context.Context, entity *models.GlobalConfigEntry) error {
	f.add(entity)
	return nil
}

func (f *fakeGlobalConfigRepo) SaveBatch(ctx context.Context, entities []*models.GlobalConfigEntry) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeGlobalConfigRepo) Update(ctx context.Context, entity *models.GlobalConfigEntry) error {
	return nil
}

func (f *fakeGlobalConfigRepo) Count(ctx context.Context, filter models.GlobalConfigFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeGlobalConfigRepo) ByKey(ctx context.Context, key string) (*models.GlobalConfigEntry, error) {
	for _, r := range f.rows {
		if r.Key == key {
			return r, nil
		}
	}
	return nil, nil
}

// --- coupons ---

type fakeCouponRepo struct {
	rows   map[uint]*models.Coupon
	nextID uint
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{rows: make(map[uint]*models.Coupon)}
}

func (f *fakeCouponRepo) add(c *models.Coupon) *models.Coupon {
	if c.ID == 0 {
		f.nextID++
		c.ID = f.nextID
	}
	f.rows[c.ID] = c
	return c
}

func (f *fakeCouponRepo) ByID(ctx context.Context, id uint) (*models.Coupon, error) {
	return f.rows[id], nil
}

func (f *fakeCouponRepo) ByFilter(ctx context.Context, filter models.CouponFilter, orderBy string, limit, offset int) ([]*models.Coupon, error) {
	var out []*models.Coupon
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeCouponRepo) Save(ctx context.Context, entity *models.Coupon) error {
	f.add(entity)
	return nil
}

func (f *fakeCouponRepo) SaveBatch(ctx context.Context, entities []*models.Coupon) error {
	for _, e := range entities {
		f.add(e)
	}
	return nil
}

func (f *fakeCouponRepo) Update(ctx context.Context, entity *models.Coupon) error {
	f.rows[entity.ID] = entity
	return nil
}

func (f *fakeCouponRepo) Count(ctx context.Context, filter models.CouponFilter) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeCouponRepo) ByCode(ctx context.Context, code string) (*models.Coupon, error) {
	for _, r := range f.rows {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}
