package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"detailbook/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const postcodeGeoPrefix = "postcode:geo:"

// PostcodesIOGeocoder looks postcodes up against a postcodes.io compatible API.
type PostcodesIOGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewPostcodesIOGeocoder(baseURL string, timeout time.Duration) *PostcodesIOGeocoder {
	return &PostcodesIOGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type postcodeResponse struct {
	Status int `json:"status"`
	Result *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"result"`
}

func (g *PostcodesIOGeocoder) Locate(ctx context.Context, postcode string) (Coordinates, error) {
	pc := models.NormalizePostcode(postcode)
	if pc == "" {
		return Coordinates{}, ErrUnknownPostcode
	}

	endpoint := fmt.Sprintf("%s/postcodes/%s", g.baseURL, url.PathEscape(pc))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coordinates{}, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("postcode lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Coordinates{}, ErrUnknownPostcode
	}
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("postcode lookup returned status %d", resp.StatusCode)
	}

	var body postcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("decode postcode response: %w", err)
	}
	if body.Result == nil {
		return Coordinates{}, ErrUnknownPostcode
	}
	return Coordinates{Latitude: body.Result.Latitude, Longitude: body.Result.Longitude}, nil
}

// CachedGeocoder keeps postcode coordinates in Redis in front of another Geocoder.
type CachedGeocoder struct {
	next   Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGeocoder(next Geocoder, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, client: client, ttl: ttl, logger: logger}
}

func (g *CachedGeocoder) Locate(ctx context.Context, postcode string) (Coordinates, error) {
	key := postcodeGeoPrefix + models.NormalizePostcode(postcode)

	data, err := g.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var c Coordinates
		if jsonErr := json.Unmarshal([]byte(data), &c); jsonErr == nil {
			return c, nil
		}
	case err != redis.Nil:
		g.logger.Warn("postcode cache read failed", zap.String("key", key), zap.Error(err))
	}

	c, err := g.next.Locate(ctx, postcode)
	if err != nil {
		return Coordinates{}, err
	}
	if b, err := json.Marshal(c); err == nil {
		if err := g.client.Set(ctx, key, b, g.ttl).Err(); err != nil {
			g.logger.Warn("postcode cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return c, nil
}
