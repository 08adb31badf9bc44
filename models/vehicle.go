package models

import "time"

// VehicleSize is the size class used for pricing.
type VehicleSize string

const (
	VehicleSizeSmall      VehicleSize = "S"
	VehicleSizeMedium     VehicleSize = "M"
	VehicleSizeLarge      VehicleSize = "L"
	VehicleSizeExtraLarge VehicleSize = "XL"
)

// Valid reports whether s is one of the known size classes.
func (s VehicleSize) Valid() bool {
	switch s {
	case VehicleSizeSmall, VehicleSizeMedium, VehicleSizeLarge, VehicleSizeExtraLarge:
		return true
	}
	return false
}

// Column is the pricing table column for the size.
func (s VehicleSize) Column() string {
	switch s {
	case VehicleSizeSmall:
		return "small"
	case VehicleSizeMedium:
		return "medium"
	case VehicleSizeLarge:
		return "large"
	case VehicleSizeExtraLarge:
		return "extra_large"
	}
	return ""
}

type Vehicle struct {
	ID           string      `bson:"id" json:"id,omitempty"`
	CustomerID   string      `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Make         string      `bson:"make" json:"make"`
	Model        string      `bson:"model" json:"model"`
	Year         int         `bson:"year,omitempty" json:"year,omitempty"`
	Size         VehicleSize `bson:"size" json:"size"`
	Color        string      `bson:"color,omitempty" json:"color,omitempty"`
	Registration string      `bson:"registration,omitempty" json:"registration,omitempty"`
	Notes        string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time   `bson:"createdAt,omitempty" json:"-"`
}
