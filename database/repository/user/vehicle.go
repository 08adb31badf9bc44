package userRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"detailbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoVehicleRepo struct {
	coll *mongo.Collection
}

func NewMongoVehicleRepo(db *mongo.Database) VehicleRepository {
	return &MongoVehicleRepo{coll: db.Collection("vehicles")}
}

func (r *MongoVehicleRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Vehicle, error) {
	vehicles, err := listByCustomer[models.Vehicle](ctx, r.coll, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles for customer %s: %w", customerID, err)
	}
	return vehicles, nil
}

func (r *MongoVehicleRepo) Save(ctx context.Context, vehicle *models.Vehicle) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"customerId": vehicle.CustomerID}
	if reg := strings.ToUpper(strings.ReplaceAll(vehicle.Registration, " ", "")); reg != "" {
		vehicle.Registration = reg
		filter["registration"] = reg
	} else {
		filter["make"] = vehicle.Make
		filter["model"] = vehicle.Model
	}

	var existing models.Vehicle
	err := r.coll.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil:
		vehicle.ID = existing.ID
		vehicle.CreatedAt = existing.CreatedAt
		if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": existing.ID}, vehicle); err != nil {
			return false, fmt.Errorf("failed to update vehicle %s: %w", existing.ID, err)
		}
		return false, nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return false, fmt.Errorf("failed to look up vehicle: %w", err)
	}

	vehicle.ID = uuid.NewString()
	vehicle.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, vehicle); err != nil {
		return false, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return true, nil
}

func (r *MongoVehicleRepo) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.coll, id); err != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, err)
	}
	return nil
}
