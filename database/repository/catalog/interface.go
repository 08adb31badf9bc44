package catalogRepo

import (
	"context"

	"detailbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceRepository reads and writes the detailing service catalogue.
type ServiceRepository interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	// GetByID returns nil, nil when the service does not exist.
	GetByID(ctx context.Context, id string) (*models.Service, error)
	Upsert(ctx context.Context, service *models.Service) error
}

// PricingRepository holds the per-size price table.
type PricingRepository interface {
	// GetByServiceID returns nil, nil when the service has no price row.
	GetByServiceID(ctx context.Context, serviceID string) (*models.ServicePricing, error)
	Upsert(ctx context.Context, pricing *models.ServicePricing) error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

type mongoPricingRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo(db *mongo.Database) ServiceRepository {
	return &mongoServiceRepo{coll: db.Collection("services")}
}

func NewMongoPricingRepo(db *mongo.Database) PricingRepository {
	return &mongoPricingRepo{coll: db.Collection("service_pricing")}
}
