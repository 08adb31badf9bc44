package userRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"detailbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

func NewMongoCustomerRepo(db *mongo.Database) CustomerRepository {
	return &MongoCustomerRepo{coll: db.Collection("customers")}
}

func (r *MongoCustomerRepo) findOne(ctx context.Context, filter bson.M) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var customer models.Customer
	if err := r.coll.FindOne(ctx, filter).Decode(&customer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

func (r *MongoCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	c, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer with id %s: %w", id, err)
	}
	return c, nil
}

func (r *MongoCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	c, err := r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer with email %s: %w", email, err)
	}
	return c, nil
}

func (r *MongoCustomerRepo) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := r.findOne(ctx, bson.M{"phone": strings.TrimSpace(phone)})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer with phone %s: %w", phone, err)
	}
	return c, nil
}

func (r *MongoCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	customer.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": customer.ID}, bson.M{"$set": customer})
	if err != nil {
		return fmt.Errorf("failed to update customer with id %s: %w", customer.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("customer with id %s not found", customer.ID)
	}
	return nil
}

func (r *MongoCustomerRepo) Delete(ctx context.Context, id string) error {
	if err := deleteByID(ctx, r.coll, id); err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := coll.DeleteOne(ctx, bson.M{"id": id})
	return err
}

// listByCustomer decodes every document in coll owned by customerID, newest first.
func listByCustomer[T any](ctx context.Context, coll *mongo.Collection, customerID string) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
