package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoTimeSlotRepo) Reserve(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      slotID,
		"blocked": false,
		"$expr":   bson.M{"$lt": bson.A{"$booked", "$capacity"}},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"booked": 1}})
	if err != nil {
		return fmt.Errorf("failed to reserve timeslot %s: %w", slotID, err)
	}
	if res.MatchedCount == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (r *mongoTimeSlotRepo) Release(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "booked": bson.M{"$gt": 0}}
	if _, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"booked": -1}}); err != nil {
		return fmt.Errorf("failed to release timeslot %s: %w", slotID, err)
	}
	return nil
}
