package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"detailbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoServiceRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &service, nil
}

func (r *mongoServiceRepo) Upsert(ctx context.Context, service *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if service.CreatedAt.IsZero() {
		service.CreatedAt = time.Now()
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": service.ID}, service, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert service %s: %w", service.ID, err)
	}
	return nil
}

func (r *mongoPricingRepo) GetByServiceID(ctx context.Context, serviceID string) (*models.ServicePricing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pricing models.ServicePricing
	if err := r.coll.FindOne(ctx, bson.M{"serviceId": serviceID}).Decode(&pricing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pricing for service %s: %w", serviceID, err)
	}
	return &pricing, nil
}

func (r *mongoPricingRepo) Upsert(ctx context.Context, pricing *models.ServicePricing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"serviceId": pricing.ServiceID}, pricing, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert pricing for service %s: %w", pricing.ServiceID, err)
	}
	return nil
}
