package booking

import (
	"context"
	"time"

	"detailbook/models"
)

// ServiceCatalog resolves the services named in a booking request.
type ServiceCatalog interface {
	Get(ctx context.Context, id string) (models.Service, error)
}

// Pricer computes the authoritative price of a booking.
type Pricer interface {
	Calculate(ctx context.Context, service models.Service, vehicle models.Vehicle, address models.Address) models.PriceBreakdown
}

// TokenIssuer signs the link a new customer uses to set a password.
type TokenIssuer interface {
	GeneratePasswordSetupToken(customerID, email string, ttl time.Duration) (string, error)
}

// ReminderScheduler queues the pre-appointment reminder.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b models.Booking) error
}
