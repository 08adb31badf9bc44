package customer

import (
	"context"
	"strings"

	bookingRepo "detailbook/database/repository/booking"
	userRepo "detailbook/database/repository/user"
	"detailbook/models"

	"go.uber.org/zap"
)

const recentBookingLimit = 5

var ErrMissingContact = models.NewAPIError(models.CodeValidation, "An email address or phone number is required")

// Service looks customers up for the booking flow.
type Service struct {
	customers userRepo.CustomerRepository
	vehicles  userRepo.VehicleRepository
	addresses userRepo.AddressRepository
	bookings  bookingRepo.BookingRepository
	logger    *zap.Logger
}

func NewService(customers userRepo.CustomerRepository, vehicles userRepo.VehicleRepository, addresses userRepo.AddressRepository, bookings bookingRepo.BookingRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{customers: customers, vehicles: vehicles, addresses: addresses, bookings: bookings, logger: logger}
}

// ValidateUser finds a customer by email, falling back to phone, and returns
// their saved vehicles, addresses and recent bookings.
func (s *Service) ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return models.UserLookup{}, ErrMissingContact
	}

	customer, err := s.find(ctx, email, phone)
	if err != nil {
		return models.UserLookup{}, err
	}
	lookup := models.UserLookup{
		Vehicles:       []models.Vehicle{},
		Addresses:      []models.Address{},
		RecentBookings: []models.BookingSummary{},
	}
	if customer == nil {
		return lookup, nil
	}

	lookup.IsExistingUser = true
	lookup.User = customer
	if lookup.Vehicles, err = s.vehicles.ListByCustomer(ctx, customer.ID); err != nil {
		return models.UserLookup{}, err
	}
	if lookup.Addresses, err = s.addresses.ListByCustomer(ctx, customer.ID); err != nil {
		return models.UserLookup{}, err
	}
	recent, err := s.bookings.ListRecentByCustomer(ctx, customer.ID, recentBookingLimit)
	if err != nil {
		return models.UserLookup{}, err
	}
	for _, b := range recent {
		lookup.RecentBookings = append(lookup.RecentBookings, b.Summary())
	}

	s.logger.Debug("existing customer found",
		zap.String("customerId", customer.ID),
		zap.Int("vehicles", len(lookup.Vehicles)),
		zap.Int("recentBookings", len(lookup.RecentBookings)))
	return lookup, nil
}

func (s *Service) find(ctx context.Context, email, phone string) (*models.Customer, error) {
	if email != "" {
		c, err := s.customers.GetByEmail(ctx, email)
		if err != nil || c != nil {
			return c, err
		}
	}
	if phone != "" {
		return s.customers.GetByPhone(ctx, phone)
	}
	return nil, nil
}
