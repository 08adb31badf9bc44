package bookingRepo

import (
	"context"
	"errors"

	"detailbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateReference is returned when a booking reference is already taken.
var ErrDuplicateReference = errors.New("booking reference already exists")

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID returns nil, nil when the booking does not exist.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	ListRecentByCustomer(ctx context.Context, customerID string, limit int64) ([]models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
