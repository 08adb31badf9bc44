package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"detailbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoAddressRepo struct {
	coll *mongo.Collection
}

func NewMongoAddressRepo(db *mongo.Database) AddressRepository {
	return &MongoAddressRepo{coll: db.Collection("addresses")}
}

func (r *MongoAddressRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Address, error) {
	addresses, err := listByCustomer[models.Address](ctx, r.coll, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for customer %s: %w", customerID, err)
	}
	return addresses, nil
}

func (r *MongoAddressRepo) Save(ctx context.Context, address *models.Address) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	address.Postcode = models.NormalizePostcode(address.Postcode)
	filter := bson.M{
		"customerId": address.CustomerID,
		"line1":      address.Line1,
		"postcode":   address.Postcode,
	}

	var existing models.Address
	err := r.coll.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		address.ID = existing.ID
		address.CreatedAt = existing.CreatedAt
		return false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, fmt.Errorf("failed to look up address: %w", err)
	}

	address.ID = uuid.NewString()
	address.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, address); err != nil {
		return false, fmt.Errorf("failed to create address: %w", err)
	}
	return true, nil
}

func (r *MongoAddressRepo) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.coll, id); err != nil {
		return fmt.Errorf("failed to delete address %s: %w", id, err)
	}
	return nil
}
