package pricing

import (
	"context"
	"fmt"

	"detailbook/models"

	"go.uber.org/zap"
)

const (
	DefaultCurrency   = "GBP"
	travelUnavailable = "Travel distance unavailable"

	servicePriceUnavailable = "service price unavailable, base price used"
)

// Calculator prices a service for a vehicle and address. It never fails: a
// missing per-size price falls back to the base price and a travel problem to
// no surcharge, and either marks the breakdown Degraded.
type Calculator struct {
	lookup   ServicePriceLookup
	resolver DistanceResolver
	currency string
	logger   *zap.Logger
}

func NewCalculator(lookup ServicePriceLookup, resolver DistanceResolver, currency string, logger *zap.Logger) *Calculator {
	if currency == "" {
		currency = DefaultCurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{lookup: lookup, resolver: resolver, currency: currency, logger: logger}
}

// CalculateServicePrice returns the per-size price, or the service base price
// when no per-size price can be found.
func (c *Calculator) CalculateServicePrice(ctx context.Context, service models.Service, size models.VehicleSize) float64 {
	price, _ := c.servicePrice(ctx, service, size)
	return price
}

// servicePrice also reports whether the per-size price was found.
func (c *Calculator) servicePrice(ctx context.Context, service models.Service, size models.VehicleSize) (float64, bool) {
	if price, ok := c.lookup.Lookup(ctx, service.ID, size); ok {
		return price, true
	}
	c.logger.Warn("no per-size price found, falling back to base price",
		zap.String("serviceId", service.ID),
		zap.String("size", string(size)),
		zap.Float64("basePrice", service.BasePrice))
	return service.BasePrice, false
}

// Quote prices a service without travel, for when no address is known yet.
func (c *Calculator) Quote(ctx context.Context, service models.Service, size models.VehicleSize) models.PriceQuote {
	price := c.CalculateServicePrice(ctx, service, size)
	return models.PriceQuote{
		BasePrice:       service.BasePrice,
		SizeMultiplier:  1,
		ServicePrice:    price,
		TravelSurcharge: 0,
		FinalPrice:      price,
		Currency:        c.currency,
	}
}

// Calculate builds the full breakdown for service, vehicle and address.
func (c *Calculator) Calculate(ctx context.Context, service models.Service, vehicle models.Vehicle, address models.Address) (breakdown models.PriceBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("price calculation panicked", zap.Any("panic", r), zap.String("serviceId", service.ID))
			breakdown = c.degraded(service, service.BasePrice, fmt.Sprintf("pricing failed: %v", r))
		}
	}()

	servicePrice, resolved := c.servicePrice(ctx, service, vehicle.Size)

	result, err := c.resolver.Resolve(ctx, address.Postcode)
	if err != nil {
		c.logger.Warn("travel distance unavailable, no surcharge applied",
			zap.String("postcode", address.Postcode),
			zap.Error(err))
		reason := err.Error()
		if !resolved {
			reason += "; " + servicePriceUnavailable
		}
		return c.degraded(service, servicePrice, reason)
	}

	distance := result.DistanceMiles
	surcharge := roundMoney(result.SurchargeAmount)
	total := roundMoney(servicePrice + surcharge)

	description := fmt.Sprintf("%.1f miles from depot", distance)
	if result.WithinFreeRadius {
		description = fmt.Sprintf("Within free travel radius (%.1f miles)", distance)
	}

	breakdown = models.PriceBreakdown{
		BasePrice:       service.BasePrice,
		SizeMultiplier:  1,
		ServicePrice:    servicePrice,
		TravelDistance:  &distance,
		TravelSurcharge: surcharge,
		TotalPrice:      total,
		FinalPrice:      total,
		Currency:        c.currency,
		Breakdown: models.PriceDescription{
			Service: c.serviceLine(service, servicePrice),
			Travel: models.TravelLine{
				Distance:    &distance,
				Surcharge:   surcharge,
				Description: description,
				Formatted:   FormatPrice(surcharge, c.currency),
			},
			Total: models.TotalLine{Price: total, Formatted: FormatPrice(total, c.currency)},
		},
	}
	if !resolved {
		breakdown.Degraded = true
		breakdown.DegradedReason = servicePriceUnavailable
	}
	return breakdown
}

func (c *Calculator) degraded(service models.Service, servicePrice float64, reason string) models.PriceBreakdown {
	return models.PriceBreakdown{
		BasePrice:       service.BasePrice,
		SizeMultiplier:  1,
		ServicePrice:    servicePrice,
		TravelSurcharge: 0,
		TotalPrice:      servicePrice,
		FinalPrice:      servicePrice,
		Currency:        c.currency,
		Degraded:        true,
		DegradedReason:  reason,
		Breakdown: models.PriceDescription{
			Service: c.serviceLine(service, servicePrice),
			Travel: models.TravelLine{
				Description: travelUnavailable,
				Formatted:   FormatPrice(0, c.currency),
			},
			Total: models.TotalLine{Price: servicePrice, Formatted: FormatPrice(servicePrice, c.currency)},
		},
	}
}

func (c *Calculator) serviceLine(service models.Service, price float64) models.ServiceLine {
	return models.ServiceLine{Name: service.Name, Price: price, Formatted: FormatPrice(price, c.currency)}
}
