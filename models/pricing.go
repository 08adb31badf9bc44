package models

// PriceBreakdown is the priced result of a service, vehicle and address.
type PriceBreakdown struct {
	BasePrice       float64          `json:"basePrice"`
	SizeMultiplier  float64          `json:"sizeMultiplier"` // legacy, always 1
	ServicePrice    float64          `json:"servicePrice"`
	TravelDistance  *float64         `json:"travelDistance,omitempty"`
	TravelSurcharge float64          `json:"travelSurcharge"`
	TotalPrice      float64          `json:"totalPrice"`
	FinalPrice      float64          `json:"finalPrice"`
	Currency        string           `json:"currency"`
	Degraded        bool             `json:"degraded"`
	DegradedReason  string           `json:"degradedReason,omitempty"`
	Breakdown       PriceDescription `json:"breakdown"`
}

// PriceDescription is the display form of a breakdown.
type PriceDescription struct {
	Service ServiceLine `json:"service"`
	Travel  TravelLine  `json:"travel"`
	Total   TotalLine   `json:"total"`
}

type ServiceLine struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Formatted string  `json:"formatted"`
}

type TravelLine struct {
	Distance    *float64 `json:"distance,omitempty"`
	Surcharge   float64  `json:"surcharge"`
	Description string   `json:"description"`
	Formatted   string   `json:"formatted"`
}

type TotalLine struct {
	Price     float64 `json:"price"`
	Formatted string  `json:"formatted"`
}

// PriceQuoteRequest is the body of POST /pricing/calculate.
type PriceQuoteRequest struct {
	ServiceID   string      `json:"serviceId" binding:"required"`
	VehicleSize VehicleSize `json:"vehicleSize" binding:"required"`
}

// PriceQuote is the address-free pricing response.
type PriceQuote struct {
	BasePrice       float64 `json:"basePrice"`
	SizeMultiplier  float64 `json:"sizeMultiplier"`
	ServicePrice    float64 `json:"servicePrice"`
	TravelSurcharge float64 `json:"travelSurcharge"`
	FinalPrice      float64 `json:"finalPrice"`
	Currency        string  `json:"currency"`
}

// Breakdown widens a quote into a breakdown without travel information.
func (q PriceQuote) Breakdown(serviceName string) PriceBreakdown {
	return PriceBreakdown{
		BasePrice:       q.BasePrice,
		SizeMultiplier:  q.SizeMultiplier,
		ServicePrice:    q.ServicePrice,
		TravelSurcharge: q.TravelSurcharge,
		TotalPrice:      q.ServicePrice + q.TravelSurcharge,
		FinalPrice:      q.FinalPrice,
		Currency:        q.Currency,
		Breakdown: PriceDescription{
			Service: ServiceLine{Name: serviceName, Price: q.ServicePrice},
			Travel:  TravelLine{Surcharge: q.TravelSurcharge, Description: "Travel calculated once an address is provided"},
			Total:   TotalLine{Price: q.FinalPrice},
		},
	}
}

// BreakdownRequest is the body of POST /pricing/breakdown.
type BreakdownRequest struct {
	ServiceID   string      `json:"serviceId" binding:"required"`
	VehicleSize VehicleSize `json:"vehicleSize" binding:"required"`
	Postcode    string      `json:"postcode" binding:"required"`
}
