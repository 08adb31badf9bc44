package timeslotRepo

import (
	"context"
	"errors"

	"detailbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotUnavailable is returned when a slot is blocked, full or missing.
var ErrSlotUnavailable = errors.New("time slot is not available")

type TimeSlotRepository interface {
	CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error)
	ListByDate(ctx context.Context, date string) ([]models.TimeSlot, error)
	// GetByID returns nil, nil when the slot does not exist.
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	// MaxDate returns the latest date with slots on or after from, or "".
	MaxDate(ctx context.Context, from string) (string, error)
	// Reserve takes one unit of capacity, failing with ErrSlotUnavailable.
	Reserve(ctx context.Context, slotID string) error
	Release(ctx context.Context, slotID string) error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo(db *mongo.Database) TimeSlotRepository {
	return &mongoTimeSlotRepo{coll: db.Collection("timeslots")}
}
