package models

import "time"

// Service is a bookable detailing package.
type Service struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	BasePrice float64   `bson:"basePrice" json:"basePrice"`
	Duration  int       `bson:"duration" json:"duration"` // minutes
	Category  string    `bson:"category,omitempty" json:"category,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}

// ServicePricing is the per-size price row for one service. A nil column means
// no price has been set for that size.
type ServicePricing struct {
	ServiceID  string   `bson:"serviceId" json:"service_id"`
	Small      *float64 `bson:"small,omitempty" json:"small,omitempty"`
	Medium     *float64 `bson:"medium,omitempty" json:"medium,omitempty"`
	Large      *float64 `bson:"large,omitempty" json:"large,omitempty"`
	ExtraLarge *float64 `bson:"extra_large,omitempty" json:"extra_large,omitempty"`
}

// PriceFor returns the column value for size.
func (p ServicePricing) PriceFor(size VehicleSize) (float64, bool) {
	var v *float64
	switch size {
	case VehicleSizeSmall:
		v = p.Small
	case VehicleSizeMedium:
		v = p.Medium
	case VehicleSizeLarge:
		v = p.Large
	case VehicleSizeExtraLarge:
		v = p.ExtraLarge
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
