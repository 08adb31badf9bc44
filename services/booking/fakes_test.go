package booking

import (
	"context"
	"sync"
	"time"

	timeslotRepo "detailbook/database/repository/timeslot"
	"detailbook/models"

	"github.com/google/uuid"
)

type fakeBookings struct {
	mu        sync.Mutex
	items     map[string]*models.Booking
	createErr []error // consumed one per Create call
	updateErr error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{items: map[string]*models.Booking{}}
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return err
		}
	}
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) Update(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBookings) ListRecentByCustomer(_ context.Context, customerID string, limit int64) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.items {
		if b.CustomerID == customerID && int64(len(out)) < limit {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeSlots struct {
	mu    sync.Mutex
	items map[string]*models.TimeSlot
}

func newFakeSlots(slots ...models.TimeSlot) *fakeSlots {
	f := &fakeSlots{items: map[string]*models.TimeSlot{}}
	for i := range slots {
		s := slots[i]
		f.items[s.ID] = &s
	}
	return f
}

func (f *fakeSlots) CreateMany(_ context.Context, slots []models.TimeSlot) ([]string, error) {
	return nil, nil
}

func (f *fakeSlots) ListByDate(_ context.Context, date string) ([]models.TimeSlot, error) {
	return nil, nil
}

func (f *fakeSlots) GetByID(_ context.Context, id string) (*models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlots) MaxDate(_ context.Context, from string) (string, error) {
	return "", nil
}

func (f *fakeSlots) Reserve(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok || !s.HasCapacity() {
		return timeslotRepo.ErrSlotUnavailable
	}
	s.Booked++
	return nil
}

func (f *fakeSlots) Release(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.items[id]; ok && s.Booked > 0 {
		s.Booked--
	}
	return nil
}

func (f *fakeSlots) add(slot models.TimeSlot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[slot.ID] = &slot
}

func (f *fakeSlots) booked(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Booked
}

type fakeCustomers struct {
	mu    sync.Mutex
	items map[string]*models.Customer
}

func newFakeCustomers(customers ...models.Customer) *fakeCustomers {
	f := &fakeCustomers{items: map[string]*models.Customer{}}
	for i := range customers {
		c := customers[i]
		f.items[c.ID] = &c
	}
	return f
}

func (f *fakeCustomers) find(match func(*models.Customer) bool) *models.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if match(c) {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*models.Customer, error) {
	return f.find(func(c *models.Customer) bool { return c.ID == id }), nil
}

func (f *fakeCustomers) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	return f.find(func(c *models.Customer) bool { return c.Email == email }), nil
}

func (f *fakeCustomers) GetByPhone(_ context.Context, phone string) (*models.Customer, error) {
	return f.find(func(c *models.Customer) bool { return c.Phone == phone }), nil
}

func (f *fakeCustomers) Create(_ context.Context, c *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCustomers) Update(ctx context.Context, c *models.Customer) error {
	return f.Create(ctx, c)
}

func (f *fakeCustomers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeCustomers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeVehicles struct{ saved []models.Vehicle }

func (f *fakeVehicles) ListByCustomer(_ context.Context, customerID string) ([]models.Vehicle, error) {
	return f.saved, nil
}

func (f *fakeVehicles) Save(_ context.Context, v *models.Vehicle) (bool, error) {
	v.ID = uuid.NewString()
	f.saved = append(f.saved, *v)
	return true, nil
}

func (f *fakeVehicles) Delete(_ context.Context, id string) error {
	for i, v := range f.saved {
		if v.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			break
		}
	}
	return nil
}

type fakeAddresses struct{ saved []models.Address }

func (f *fakeAddresses) ListByCustomer(_ context.Context, customerID string) ([]models.Address, error) {
	return f.saved, nil
}

func (f *fakeAddresses) Save(_ context.Context, a *models.Address) (bool, error) {
	a.ID = uuid.NewString()
	f.saved = append(f.saved, *a)
	return true, nil
}

func (f *fakeAddresses) Delete(_ context.Context, id string) error {
	for i, a := range f.saved {
		if a.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			break
		}
	}
	return nil
}

type stubCatalog map[string]models.Service

func (s stubCatalog) Get(_ context.Context, id string) (models.Service, error) {
	svc, ok := s[id]
	if !ok {
		return models.Service{}, models.NewAPIError(models.CodeNotFound, "Service not found")
	}
	return svc, nil
}

// stubPricer charges a fixed total and records what it was asked to price.
type stubPricer struct {
	total  float64
	priced []models.Service
}

func (p *stubPricer) Calculate(_ context.Context, service models.Service, _ models.Vehicle, _ models.Address) models.PriceBreakdown {
	p.priced = append(p.priced, service)
	return models.PriceBreakdown{
		BasePrice:      service.BasePrice,
		SizeMultiplier: 1,
		ServicePrice:   p.total,
		TotalPrice:     p.total,
		FinalPrice:     p.total,
		Currency:       "GBP",
	}
}

type stubTokens struct{ issued []string }

func (s *stubTokens) GeneratePasswordSetupToken(customerID, email string, ttl time.Duration) (string, error) {
	s.issued = append(s.issued, customerID)
	return "setup-token-" + customerID, nil
}

type recordingReminders struct{ scheduled []models.Booking }

func (r *recordingReminders) ScheduleReminder(_ context.Context, b models.Booking) error {
	r.scheduled = append(r.scheduled, b)
	return nil
}

type fixture struct {
	svc       *Service
	bookings  *fakeBookings
	slots     *fakeSlots
	customers *fakeCustomers
	vehicles  *fakeVehicles
	addresses *fakeAddresses
	pricer    *stubPricer
	tokens    *stubTokens
	reminders *recordingReminders
}

// fixtureNow is a month before the fixture slots.
var fixtureNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newFixture(customers ...models.Customer) *fixture {
	f := &fixture{
		bookings: newFakeBookings(),
		slots: newFakeSlots(
			models.TimeSlot{ID: "slot-1", Date: "2026-11-02", StartTime: "09:00", EndTime: "11:00", Duration: 120, Capacity: 1},
			models.TimeSlot{ID: "slot-2", Date: "2026-11-02", StartTime: "13:00", EndTime: "15:00", Duration: 120, Capacity: 2},
		),
		customers: newFakeCustomers(customers...),
		vehicles:  &fakeVehicles{},
		addresses: &fakeAddresses{},
		pricer:    &stubPricer{total: 52},
		tokens:    &stubTokens{},
		reminders: &recordingReminders{},
	}
	f.svc = NewService(Deps{
		Bookings:  f.bookings,
		Slots:     f.slots,
		Customers: f.customers,
		Vehicles:  f.vehicles,
		Addresses: f.addresses,
		Catalog:   stubCatalog{"svc-full": {ID: "svc-full", Name: "Full Valet", BasePrice: 40, Duration: 120, Active: true}},
		Pricer:    f.pricer,
		Tokens:    f.tokens,
		Reminders: f.reminders,
		Location:  time.UTC,
		Now:       func() time.Time { return fixtureNow },
	})
	return f
}

func validRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		Customer: models.BookingCustomer{Email: " Sam@Example.com ", Phone: "07700900123", Name: "Sam Taylor"},
		Vehicle:  models.Vehicle{Make: "Volvo", Model: "XC90", Size: models.VehicleSizeLarge},
		Address:  models.Address{Line1: "1 High Street", City: "Guildford", Postcode: "gu2  7xh"},
		Services: []models.BookingServiceLine{{ServiceID: "svc-full", Name: "Full Valet", Price: 52, Duration: 120}},
		TimeSlot: models.SlotSelection{SlotID: "slot-1", Date: "2026-11-02", StartTime: "09:00", EndTime: "11:00", Duration: 120},
		TotalPrice: 52,
	}
}
