package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"detailbook/models"
)

const genericFailure = "The booking service is unavailable. Please try again."

// Client talks to a remote booking API. Every response is an envelope; a
// failed envelope is returned as *models.APIError.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &models.APIError{
			Code:    models.CodeUpstream,
			Message: fmt.Sprintf("%s (status %d)", genericFailure, resp.StatusCode),
		}
	}
	if !env.Success {
		if env.Error != nil && env.Error.Message != "" {
			return env.Error
		}
		return &models.APIError{Code: models.CodeUpstream, Message: genericFailure}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := c.do(ctx, http.MethodGet, "/services", nil, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) QuotePrice(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error) {
	var quote models.PriceQuote
	body := models.PriceQuoteRequest{ServiceID: serviceID, VehicleSize: size}
	err := c.do(ctx, http.MethodPost, "/pricing/calculate", nil, body, &quote)
	return quote, err
}

func (c *Client) ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error) {
	var lookup models.UserLookup
	body := models.ValidateUserRequest{Email: email, Phone: phone}
	err := c.do(ctx, http.MethodPost, "/booking/validate-user", nil, body, &lookup)
	return lookup, err
}

func (c *Client) AvailableSlots(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error) {
	query := url.Values{"date": {q.Date}}
	if q.ServiceID != "" {
		query.Set("service_id", q.ServiceID)
	}
	if q.Duration > 0 {
		query.Set("duration", fmt.Sprint(q.Duration))
	}
	var slots []models.TimeSlot
	if err := c.do(ctx, http.MethodGet, "/time-slots/availability", query, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (models.BookingDetail, error) {
	var detail models.BookingDetail
	err := c.do(ctx, http.MethodGet, "/customer/bookings/"+url.PathEscape(bookingID), nil, nil, &detail)
	return detail, err
}

func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error) {
	var resp models.CreateBookingResponse
	err := c.do(ctx, http.MethodPost, "/bookings/create", nil, req, &resp)
	return resp, err
}

// ServicePrice reads one cell of the remote price table. A missing price is
// reported as ok == false with a nil error.
func (c *Client) ServicePrice(ctx context.Context, serviceID string, size models.VehicleSize) (float64, bool, error) {
	var row map[string]float64
	query := url.Values{"service_id": {serviceID}, "size": {string(size)}}
	err := c.do(ctx, http.MethodGet, "/pricing/service-pricing", query, nil, &row)
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) && apiErr.Code == models.CodeNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	price, ok := row[size.Column()]
	return price, ok, nil
}
