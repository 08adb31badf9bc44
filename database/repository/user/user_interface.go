package userRepo

import (
	"context"

	"detailbook/models"
)

// CustomerRepository defines customer account access. Lookups return nil, nil
// when nothing matches.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id string) error
}

// VehicleRepository stores the vehicles a customer has had detailed.
type VehicleRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.Vehicle, error)
	// Save inserts the vehicle, or reuses the stored one with the same
	// registration (or make and model when unregistered). It fills in ID and
	// reports whether a new document was inserted.
	Save(ctx context.Context, vehicle *models.Vehicle) (bool, error)
	Delete(ctx context.Context, id string) error
}

// AddressRepository stores customer service addresses.
type AddressRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.Address, error)
	// Save inserts the address unless the customer already has one with the
	// same first line and postcode. It fills in ID and reports whether a new
	// document was inserted.
	Save(ctx context.Context, address *models.Address) (bool, error)
	Delete(ctx context.Context, id string) error
}
