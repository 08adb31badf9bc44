package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// FreeTravelRadiusMiles is the default radius around the depot with no travel charge.
const FreeTravelRadiusMiles = 17.5

const earthRadiusMiles = 3958.8

var ErrUnknownPostcode = errors.New("unknown postcode")

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder turns a postcode into coordinates.
type Geocoder interface {
	Locate(ctx context.Context, postcode string) (Coordinates, error)
}

// DistanceResult is the travel assessment for one postcode.
type DistanceResult struct {
	DistanceMiles    float64 `json:"distanceMiles"`
	WithinFreeRadius bool    `json:"withinFreeRadius"`
	SurchargeAmount  float64 `json:"surchargeAmount"`
}

// DistanceResolver resolves a postcode to a distance from the depot and a surcharge.
type DistanceResolver interface {
	Resolve(ctx context.Context, postcode string) (DistanceResult, error)
}

// SurchargePolicy prices travel beyond the free radius.
type SurchargePolicy interface {
	Surcharge(distanceMiles float64) float64
}

type SurchargeBand struct {
	UpToMiles float64
	Amount    float64
}

// BandedSurcharge charges a flat amount per distance band, then a per-mile
// rate for every started mile past the last band.
type BandedSurcharge struct {
	FreeRadius    float64
	Bands         []SurchargeBand
	PerMileBeyond float64
}

func DefaultSurchargePolicy(freeRadius float64) BandedSurcharge {
	return BandedSurcharge{
		FreeRadius: freeRadius,
		Bands: []SurchargeBand{
			{UpToMiles: 25, Amount: 8},
			{UpToMiles: 35, Amount: 15},
			{UpToMiles: 50, Amount: 25},
		},
		PerMileBeyond: 1,
	}
}

func (b BandedSurcharge) Surcharge(distanceMiles float64) float64 {
	if distanceMiles <= b.FreeRadius || len(b.Bands) == 0 {
		return 0
	}
	for _, band := range b.Bands {
		if distanceMiles <= band.UpToMiles {
			return band.Amount
		}
	}
	last := b.Bands[len(b.Bands)-1]
	extra := math.Ceil(distanceMiles - last.UpToMiles)
	return roundMoney(last.Amount + extra*b.PerMileBeyond)
}

// PostcodeDistanceResolver measures straight-line distance from a fixed depot postcode.
type PostcodeDistanceResolver struct {
	geocoder      Geocoder
	depotPostcode string
	freeRadius    float64
	policy        SurchargePolicy

	mu    sync.Mutex
	depot *Coordinates
}

func NewPostcodeDistanceResolver(geocoder Geocoder, depotPostcode string, freeRadius float64, policy SurchargePolicy) *PostcodeDistanceResolver {
	if freeRadius <= 0 {
		freeRadius = FreeTravelRadiusMiles
	}
	if policy == nil {
		policy = DefaultSurchargePolicy(freeRadius)
	}
	return &PostcodeDistanceResolver{
		geocoder:      geocoder,
		depotPostcode: depotPostcode,
		freeRadius:    freeRadius,
		policy:        policy,
	}
}

func (r *PostcodeDistanceResolver) Resolve(ctx context.Context, postcode string) (DistanceResult, error) {
	depot, err := r.depotLocation(ctx)
	if err != nil {
		return DistanceResult{}, fmt.Errorf("locate depot %s: %w", r.depotPostcode, err)
	}
	dest, err := r.geocoder.Locate(ctx, postcode)
	if err != nil {
		return DistanceResult{}, fmt.Errorf("locate postcode %q: %w", postcode, err)
	}

	miles := math.Round(HaversineMiles(depot, dest)*10) / 10
	result := DistanceResult{
		DistanceMiles:    miles,
		WithinFreeRadius: miles <= r.freeRadius,
	}
	if !result.WithinFreeRadius {
		result.SurchargeAmount = r.policy.Surcharge(miles)
	}
	return result, nil
}

func (r *PostcodeDistanceResolver) depotLocation(ctx context.Context) (Coordinates, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.depot != nil {
		return *r.depot, nil
	}
	c, err := r.geocoder.Locate(ctx, r.depotPostcode)
	if err != nil {
		return Coordinates{}, err
	}
	r.depot = &c
	return c, nil
}

// HaversineMiles is the great-circle distance between two points.
func HaversineMiles(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
