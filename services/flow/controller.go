package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"detailbook/models"

	"go.uber.org/zap"
)

// SubmissionResult is what the customer sees once a booking has been created.
type SubmissionResult struct {
	BookingID          string `json:"bookingId"`
	ConfirmationNumber string `json:"confirmationNumber"`
	UserID             string `json:"userId"`
	RequiresPassword   bool   `json:"requiresPassword"`
	PasswordSetupToken string `json:"passwordSetupToken,omitempty"`
}

// Controller drives one booking wizard session. It is safe for concurrent use;
// the lock is never held while a backend call is in flight.
type Controller struct {
	backend    Backend
	calculator PriceCalculator
	order      StepOrder
	expiry     time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu         sync.Mutex
	state      State
	loading    int
	priceToken uint64
	userToken  uint64
}

type Option func(*Controller)

func WithStepOrder(order StepOrder) Option {
	return func(c *Controller) { c.order = order }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithSessionExpiry(d time.Duration) Option {
	return func(c *Controller) { c.expiry = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithState starts the controller from an existing (usually rehydrated) state.
func WithState(s State) Option {
	return func(c *Controller) {
		c.state = s
		c.state.IsLoading = false
		c.state.IsSubmitting = false
	}
}

func NewController(backend Backend, calculator PriceCalculator, opts ...Option) *Controller {
	c := &Controller{
		backend:    backend,
		calculator: calculator,
		order:      StandardOrder,
		expiry:     DefaultSessionExpiry,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state.CurrentStep == 0 {
		c.state = NewState(c.now(), c.expiry)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// --- steps ---

// StepKind returns what the current step collects.
func (c *Controller) StepKind() StepKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Kind(c.state.CurrentStep)
}

// SetStepKind jumps to the step collecting kind, wherever the configured order
// puts it.
func (c *Controller) SetStepKind(kind StepKind) error {
	n := c.order.StepOf(kind)
	if n == 0 {
		return ErrUnknownStep
	}
	c.SetStep(n)
	return nil
}

// SetStep jumps to step n without validation. Out of range values are clamped.
func (c *Controller) SetStep(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentStep = clampStep(n)
	c.state.Error = ""
}

// NextStep advances one step when the current step is valid. It reports
// whether the step changed.
func (c *Controller) NextStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CurrentStep >= LastStep || !c.validStep(c.state.CurrentStep) {
		return false
	}
	c.state.CurrentStep++
	return true
}

func (c *Controller) PreviousStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.CurrentStep <= FirstStep {
		return false
	}
	c.state.CurrentStep--
	return true
}

func (c *Controller) ValidateCurrentStep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validStep(c.state.CurrentStep)
}

func (c *Controller) ValidateStep(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validStep(n)
}

func (c *Controller) validStep(n int) bool {
	return ValidKind(c.order.Kind(n), c.state.FormData)
}

// --- form data ---

// UpdateFormData replaces one section of the form from its JSON encoding.
// A JSON null clears the section.
func (c *Controller) UpdateFormData(key string, raw json.RawMessage) error {
	switch StepKind(key) {
	case StepService:
		var v *models.Service
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		c.SetService(v)
	case StepVehicle:
		var v *models.Vehicle
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		c.SetVehicle(v)
	case StepSlot:
		var v *models.SlotSelection
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		c.SetSlot(v)
	case StepAddress:
		var v *models.Address
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		c.SetAddress(v)
	case StepUser:
		var v *models.UserDetails
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		c.SetUser(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormKey, key)
	}
	return nil
}

func (c *Controller) SetService(s *models.Service) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.FormData.Service = s
	c.invalidatePrice()
}

func (c *Controller) SetVehicle(v *models.Vehicle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.FormData.Vehicle = v
	c.invalidatePrice()
}

func (c *Controller) SetAddress(a *models.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.FormData.Address = a
	c.invalidatePrice()
}

func (c *Controller) SetSlot(s *models.SlotSelection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.FormData.Slot = s
	c.state.Error = ""
}

func (c *Controller) SetUser(u *models.UserDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.FormData.User = u
	c.state.Error = ""
}

// invalidatePrice drops the computed price and any price request still in flight.
func (c *Controller) invalidatePrice() {
	c.state.CalculatedPrice = nil
	c.state.Error = ""
	c.priceToken++
}

// --- backend operations ---

// CalculatePrice prices the selected service and vehicle. With an address the
// full calculator is used, otherwise the API's size-only quote. Only the most
// recent call may update the state.
func (c *Controller) CalculatePrice(ctx context.Context) error {
	c.mu.Lock()
	form := c.state.FormData
	if form.Service == nil || form.Vehicle == nil {
		c.state.Error = ErrMissingPriceInputs.Error()
		c.mu.Unlock()
		return ErrMissingPriceInputs
	}
	c.priceToken++
	token := c.priceToken
	service, vehicle := *form.Service, *form.Vehicle
	var address *models.Address
	if form.Address != nil && form.Address.Postcode != "" {
		a := *form.Address
		address = &a
	}
	c.beginLoading()
	c.mu.Unlock()

	var (
		breakdown models.PriceBreakdown
		err       error
	)
	if address != nil && c.calculator != nil {
		breakdown = c.calculator.Calculate(ctx, service, vehicle, *address)
	} else {
		var quote models.PriceQuote
		quote, err = c.backend.QuotePrice(ctx, service.ID, vehicle.Size)
		if err == nil {
			breakdown = quote.Breakdown(service.Name)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLoading()
	if token != c.priceToken {
		c.logger.Debug("discarding superseded price result", zap.String("serviceId", service.ID))
		return nil
	}
	if err != nil {
		c.fail("price calculation failed", err, "Failed to calculate price")
		return err
	}
	c.state.CalculatedPrice = &breakdown
	return nil
}

// LoadExistingUserData looks the customer up by email and phone. Previous
// lookup results are cleared before the call is made.
func (c *Controller) LoadExistingUserData(ctx context.Context, email, phone string) error {
	c.mu.Lock()
	c.clearUserData()
	c.userToken++
	token := c.userToken
	c.beginLoading()
	c.mu.Unlock()

	lookup, err := c.backend.ValidateUser(ctx, email, phone)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLoading()
	if token != c.userToken {
		return nil
	}
	if err != nil {
		c.fail("user lookup failed", err, "Failed to look up customer")
		return err
	}
	c.state.IsExistingUser = lookup.IsExistingUser
	if lookup.Vehicles != nil {
		c.state.UserVehicles = lookup.Vehicles
	}
	if lookup.Addresses != nil {
		c.state.UserAddresses = lookup.Addresses
	}
	if lookup.RecentBookings != nil {
		c.state.RecentBookings = lookup.RecentBookings
	}
	return nil
}

func (c *Controller) clearUserData() {
	c.state.IsExistingUser = false
	c.state.UserVehicles = []models.Vehicle{}
	c.state.UserAddresses = []models.Address{}
	c.state.RecentBookings = []models.BookingSummary{}
	c.state.Error = ""
}

// LoadAvailableSlots fetches the slots for date and keeps the bookable ones.
func (c *Controller) LoadAvailableSlots(ctx context.Context, date, serviceID string, duration int) error {
	c.mu.Lock()
	c.state.Error = ""
	c.beginLoading()
	c.mu.Unlock()

	slots, err := c.backend.AvailableSlots(ctx, models.SlotQuery{Date: date, ServiceID: serviceID, Duration: duration})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLoading()
	if err != nil {
		c.fail("slot availability failed", err, "Failed to load available time slots")
		return err
	}
	available := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.IsAvailable {
			available = append(available, s)
		}
	}
	c.state.AvailableSlots = available
	return nil
}

func (c *Controller) LoadServices(ctx context.Context) error {
	c.mu.Lock()
	c.state.Error = ""
	c.beginLoading()
	c.mu.Unlock()

	services, err := c.backend.ListServices(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLoading()
	if err != nil {
		c.fail("service listing failed", err, "Failed to load services")
		return err
	}
	if services == nil {
		services = []models.Service{}
	}
	c.state.AvailableServices = services
	return nil
}

// InitializeRebooking starts over from a previous booking. Service, vehicle,
// address and contact details are copied; the time slot never is.
func (c *Controller) InitializeRebooking(ctx context.Context, bookingID string) error {
	c.ResetFlow()

	c.mu.Lock()
	c.beginLoading()
	c.mu.Unlock()

	detail, err := c.backend.GetBooking(ctx, bookingID)

	c.mu.Lock()
	c.endLoading()
	if err != nil {
		c.fail("rebooking lookup failed", err, "Failed to load previous booking")
		c.mu.Unlock()
		return err
	}

	b := detail.Booking
	form := models.FormData{}
	if detail.Service != nil {
		svc := *detail.Service
		form.Service = &svc
	} else if b.ServiceID != "" {
		form.Service = &models.Service{ID: b.ServiceID, Name: b.ServiceName}
	}
	if b.Vehicle.Make != "" || b.Vehicle.Model != "" {
		v := b.Vehicle
		form.Vehicle = &v
	}
	if b.Address.Line1 != "" || b.Address.Postcode != "" {
		a := b.Address
		form.Address = &a
	}
	if detail.Customer != nil {
		form.User = &models.UserDetails{
			Email:          detail.Customer.Email,
			Phone:          detail.Customer.Phone,
			Name:           detail.Customer.Name,
			IsExistingUser: true,
		}
		c.state.IsExistingUser = true
	}

	c.state.FormData = form
	c.state.IsRebooking = true
	c.state.RebookedFrom = b.ID
	c.state.CurrentStep = FirstStep
	c.priceToken++
	canPrice := form.Service != nil && form.Vehicle != nil
	c.mu.Unlock()

	if canPrice {
		// A pricing failure is recorded on the state; the rebooking itself succeeded.
		_ = c.CalculatePrice(ctx)
	}
	return nil
}

// SubmitBooking creates the booking from the completed form. Unlike the
// loaders, failures are returned to the caller as well as recorded.
func (c *Controller) SubmitBooking(ctx context.Context) (SubmissionResult, error) {
	c.mu.Lock()
	if c.state.IsSubmitting {
		c.mu.Unlock()
		return SubmissionResult{}, ErrSubmissionInProgress
	}
	if !c.state.FormData.Complete() {
		c.state.Error = ErrIncompleteBooking.Error()
		c.mu.Unlock()
		return SubmissionResult{}, ErrIncompleteBooking
	}
	req := buildCreateRequest(c.state)
	c.state.IsSubmitting = true
	c.state.Error = ""
	c.mu.Unlock()

	resp, err := c.backend.CreateBooking(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsSubmitting = false
	if err != nil {
		c.fail("booking submission failed", err, "Failed to create booking")
		return SubmissionResult{}, err
	}
	c.logger.Info("booking submitted",
		zap.String("bookingId", resp.BookingID),
		zap.String("reference", resp.BookingReference),
		zap.Bool("rebooking", c.state.IsRebooking))
	return SubmissionResult{
		BookingID:          resp.BookingID,
		ConfirmationNumber: resp.BookingReference,
		UserID:             resp.CustomerID,
		RequiresPassword:   resp.RequiresPasswordSetup,
		PasswordSetupToken: resp.PasswordSetupToken,
	}, nil
}

// ResetFlow discards everything and starts a new session window.
func (c *Controller) ResetFlow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = NewState(c.now(), c.expiry)
	c.loading = 0
	c.priceToken++
	c.userToken++
}

// touch restarts the idle window.
func (c *Controller) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SessionTimestamp = c.now()
}

func (c *Controller) beginLoading() {
	c.loading++
	c.state.IsLoading = true
}

func (c *Controller) endLoading() {
	if c.loading > 0 {
		c.loading--
	}
	c.state.IsLoading = c.loading > 0
}

func (c *Controller) fail(msg string, err error, fallback string) {
	c.state.Error = errorMessage(err, fallback)
	c.logger.Warn(msg, zap.Error(err))
}

func buildCreateRequest(s State) models.CreateBookingRequest {
	form := s.FormData
	servicePrice := form.Service.BasePrice
	if s.CalculatedPrice != nil {
		servicePrice = s.CalculatedPrice.ServicePrice
	}
	return models.CreateBookingRequest{
		Customer: models.BookingCustomer{
			Email:          form.User.Email,
			Phone:          form.User.Phone,
			Name:           form.User.Name,
			IsExistingUser: form.User.IsExistingUser,
			Password:       form.User.Password,
		},
		Vehicle: *form.Vehicle,
		Address: *form.Address,
		Services: []models.BookingServiceLine{{
			ServiceID: form.Service.ID,
			Name:      form.Service.Name,
			Price:     servicePrice,
			Duration:  form.Service.Duration,
		}},
		TimeSlot:     *form.Slot,
		TotalPrice:   submissionTotal(s.CalculatedPrice),
		Pricing:      s.CalculatedPrice,
		RebookedFrom: s.RebookedFrom,
	}
}

// submissionTotal prefers the final price, then service plus travel, then zero.
func submissionTotal(p *models.PriceBreakdown) float64 {
	if p == nil {
		return 0
	}
	if p.FinalPrice != 0 {
		return p.FinalPrice
	}
	return p.ServicePrice + p.TravelSurcharge
}
