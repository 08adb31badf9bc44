package booking

import (
	"context"
	"errors"
	"math"
	"time"

	bookingRepo "detailbook/database/repository/booking"
	timeslotRepo "detailbook/database/repository/timeslot"
	userRepo "detailbook/database/repository/user"
	"detailbook/models"
	"detailbook/services/timeslot"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const referenceAttempts = 3

// Service creates bookings and moves them through their lifecycle.
type Service struct {
	bookings  bookingRepo.BookingRepository
	slots     timeslotRepo.TimeSlotRepository
	customers userRepo.CustomerRepository
	vehicles  userRepo.VehicleRepository
	addresses userRepo.AddressRepository
	catalog   ServiceCatalog
	pricer    Pricer
	tokens    TokenIssuer
	reminders ReminderScheduler
	setupTTL  time.Duration
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

type Deps struct {
	Bookings         bookingRepo.BookingRepository
	Slots            timeslotRepo.TimeSlotRepository
	Customers        userRepo.CustomerRepository
	Vehicles         userRepo.VehicleRepository
	Addresses        userRepo.AddressRepository
	Catalog          ServiceCatalog
	Pricer           Pricer
	Tokens           TokenIssuer
	Reminders        ReminderScheduler
	PasswordSetupTTL time.Duration
	Location         *time.Location
	Now              func() time.Time
	Logger           *zap.Logger
}

func NewService(d Deps) *Service {
	s := &Service{
		bookings:  d.Bookings,
		slots:     d.Slots,
		customers: d.Customers,
		vehicles:  d.Vehicles,
		addresses: d.Addresses,
		catalog:   d.Catalog,
		pricer:    d.Pricer,
		tokens:    d.Tokens,
		reminders: d.Reminders,
		setupTTL:  d.PasswordSetupTTL,
		location:  d.Location,
		now:       d.Now,
		logger:    d.Logger,
	}
	if s.setupTTL <= 0 {
		s.setupTTL = 48 * time.Hour
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Create stores a booking in a single request: the customer (created when
// new), their vehicle and address, the slot reservation and the booking
// itself. The slot must be one the availability listing would offer for the
// service, and the total is priced here rather than taken from the request.
// If the booking cannot be stored the slot is released and any records
// created for it are removed.
func (s *Service) Create(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error) {
	if err := validateCreate(&req); err != nil {
		return models.CreateBookingResponse{}, err
	}
	svc, err := s.catalog.Get(ctx, req.Services[0].ServiceID)
	if err != nil {
		return models.CreateBookingResponse{}, err
	}

	slot, err := s.slots.GetByID(ctx, req.TimeSlot.SlotID)
	if err != nil {
		return models.CreateBookingResponse{}, err
	}
	if slot == nil {
		return models.CreateBookingResponse{}, ErrSlotNotFound
	}
	if err := s.bookable(*slot, svc.Duration); err != nil {
		return models.CreateBookingResponse{}, err
	}

	pricing := s.pricer.Calculate(ctx, svc, req.Vehicle, req.Address)
	if math.Abs(pricing.FinalPrice-req.TotalPrice) >= 0.01 {
		s.logger.Warn("requested total differs from calculated price",
			zap.String("serviceId", svc.ID),
			zap.Float64("requested", req.TotalPrice),
			zap.Float64("calculated", pricing.FinalPrice))
	}

	if err := s.reserve(ctx, slot.ID); err != nil {
		return models.CreateBookingResponse{}, err
	}

	resp, err := s.create(ctx, req, svc, *slot, pricing)
	if err != nil {
		if relErr := s.slots.Release(ctx, slot.ID); relErr != nil {
			s.logger.Error("failed to release slot after booking failure",
				zap.String("slotId", slot.ID), zap.Error(relErr))
		}
		return models.CreateBookingResponse{}, err
	}
	return resp, nil
}

func (s *Service) create(ctx context.Context, req models.CreateBookingRequest, svc models.Service, slot models.TimeSlot, pricing models.PriceBreakdown) (resp models.CreateBookingResponse, err error) {
	var undo cleanup
	defer func() {
		if err != nil {
			undo.run(ctx, s.logger)
		}
	}()

	customer, created, err := s.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return models.CreateBookingResponse{}, err
	}
	if created {
		undo.add("customer", customer.ID, s.customers.Delete)
	}

	vehicle := req.Vehicle
	vehicle.CustomerID = customer.ID
	inserted, err := s.vehicles.Save(ctx, &vehicle)
	if err != nil {
		return models.CreateBookingResponse{}, err
	}
	if inserted {
		undo.add("vehicle", vehicle.ID, s.vehicles.Delete)
	}
	address := req.Address
	address.CustomerID = customer.ID
	inserted, err = s.addresses.Save(ctx, &address)
	if err != nil {
		return models.CreateBookingResponse{}, err
	}
	if inserted {
		undo.add("address", address.ID, s.addresses.Delete)
	}

	b := &models.Booking{
		ID:           uuid.NewString(),
		CustomerID:   customer.ID,
		ServiceID:    svc.ID,
		ServiceName:  svc.Name,
		Vehicle:      vehicle,
		Address:      address,
		Slot:         slot.Selection(),
		Status:       models.BookingStatusPending,
		TotalPrice:   pricing.FinalPrice,
		Pricing:      &pricing,
		Notes:        req.Notes,
		RebookedFrom: req.RebookedFrom,
	}
	if err := s.insertWithReference(ctx, b); err != nil {
		return models.CreateBookingResponse{}, err
	}

	s.logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("reference", b.Reference),
		zap.String("customerId", customer.ID),
		zap.String("slotId", slot.ID),
		zap.Float64("totalPrice", b.TotalPrice))
	s.scheduleReminder(ctx, *b)

	resp = models.CreateBookingResponse{
		BookingID:        b.ID,
		BookingReference: b.Reference,
		CustomerID:       customer.ID,
	}
	if created && !customer.PasswordSet {
		resp.RequiresPasswordSetup = true
		token, err := s.tokens.GeneratePasswordSetupToken(customer.ID, customer.Email, s.setupTTL)
		if err != nil {
			s.logger.Error("failed to issue password setup token", zap.String("customerId", customer.ID), zap.Error(err))
		} else {
			resp.PasswordSetupToken = token
		}
	}
	return resp, nil
}

// resolveCustomer matches an existing customer by email or creates one.
func (s *Service) resolveCustomer(ctx context.Context, in models.BookingCustomer) (*models.Customer, bool, error) {
	existing, err := s.customers.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	customer := &models.Customer{
		ID:    uuid.NewString(),
		Email: in.Email,
		Phone: in.Phone,
		Name:  in.Name,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, false, err
		}
		customer.PasswordHash = string(hash)
		customer.PasswordSet = true
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, false, err
	}
	return customer, true, nil
}

func (s *Service) insertWithReference(ctx context.Context, b *models.Booking) error {
	for i := 0; i < referenceAttempts; i++ {
		b.Reference = newReference()
		err := s.bookings.Create(ctx, b)
		if err == nil {
			return nil
		}
		if !errors.Is(err, bookingRepo.ErrDuplicateReference) {
			return err
		}
	}
	return errReferenceExhausted
}

// bookable applies the same rules as the availability listing, so a slot the
// customer could not have picked is refused before any capacity is taken.
func (s *Service) bookable(slot models.TimeSlot, duration int) error {
	if !timeslot.Bookable(slot, duration, s.now().In(s.location), s.location) {
		return ErrSlotUnavailable
	}
	return nil
}

func (s *Service) reserve(ctx context.Context, slotID string) error {
	err := s.slots.Reserve(ctx, slotID)
	if errors.Is(err, timeslotRepo.ErrSlotUnavailable) {
		return ErrSlotUnavailable
	}
	return err
}

func (s *Service) scheduleReminder(ctx context.Context, b models.Booking) {
	if s.reminders == nil {
		return
	}
	if err := s.reminders.ScheduleReminder(ctx, b); err != nil {
		s.logger.Warn("failed to schedule booking reminder", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// cleanup removes records written for a booking that was never stored.
type cleanup []func(context.Context, *zap.Logger)

func (c *cleanup) add(kind, id string, del func(context.Context, string) error) {
	*c = append(*c, func(ctx context.Context, logger *zap.Logger) {
		if err := del(ctx, id); err != nil {
			logger.Error("failed to remove record after booking failure",
				zap.String("kind", kind), zap.String("id", id), zap.Error(err))
		}
	})
}

func (c cleanup) run(ctx context.Context, logger *zap.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i](ctx, logger)
	}
}
