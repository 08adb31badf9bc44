package timeslotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoTimeSlotRepo) MaxDate(ctx context.Context, from string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": from}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"maxDate": bson.M{"$max": "$date"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return "", fmt.Errorf("failed to aggregate timeslot dates: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		MaxDate string `bson:"maxDate"`
	}
	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return "", err
		}
		return "", nil
	}
	if err := cursor.Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode max date: %w", err)
	}
	return result.MaxDate, nil
}
