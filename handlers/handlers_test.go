package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"detailbook/handlers"
	"detailbook/models"
	"detailbook/routes"
	"detailbook/services/flow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) ListActive(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]models.Service)
	return services, args.Error(1)
}

func (m *MockCatalog) Quote(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error) {
	args := m.Called(ctx, serviceID, size)
	return args.Get(0).(models.PriceQuote), args.Error(1)
}

func (m *MockCatalog) ServicePrice(ctx context.Context, serviceID string, size models.VehicleSize) (map[string]float64, error) {
	args := m.Called(ctx, serviceID, size)
	price, _ := args.Get(0).(map[string]float64)
	return price, args.Error(1)
}

func (m *MockCatalog) Breakdown(ctx context.Context, req models.BreakdownRequest) (models.PriceBreakdown, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.PriceBreakdown), args.Error(1)
}

type MockCustomers struct{ mock.Mock }

func (m *MockCustomers) ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error) {
	args := m.Called(ctx, email, phone)
	return args.Get(0).(models.UserLookup), args.Error(1)
}

type MockSlots struct{ mock.Mock }

func (m *MockSlots) Availability(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error) {
	args := m.Called(ctx, q)
	slots, _ := args.Get(0).([]models.TimeSlot)
	return slots, args.Error(1)
}

type MockBookings struct{ mock.Mock }

func (m *MockBookings) Get(ctx context.Context, id string) (models.BookingDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.BookingDetail), args.Error(1)
}

func (m *MockBookings) Create(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.CreateBookingResponse), args.Error(1)
}

func (m *MockBookings) Confirm(ctx context.Context, id string) (models.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *MockBookings) Reschedule(ctx context.Context, id, slotID string) (models.Booking, error) {
	args := m.Called(ctx, id, slotID)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *MockBookings) Cancel(ctx context.Context, id, reason string) (models.Booking, error) {
	args := m.Called(ctx, id, reason)
	return args.Get(0).(models.Booking), args.Error(1)
}

type testEnv struct {
	router    *gin.Engine
	catalog   *MockCatalog
	customers *MockCustomers
	slots     *MockSlots
	bookings  *MockBookings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		catalog:   &MockCatalog{},
		customers: &MockCustomers{},
		slots:     &MockSlots{},
		bookings:  &MockBookings{},
	}
	api := &handlers.BookingAPIHandler{
		Catalog:   env.catalog,
		Customers: env.customers,
		Slots:     env.slots,
		Bookings:  env.bookings,
		Logger:    zap.NewNop(),
	}
	backend := flow.NewLocalBackend(env.catalog, env.customers, env.slots, env.bookings)
	manager := flow.NewManager(flow.ManagerConfig{
		Store:   flow.NewMemorySessionStore(),
		Backend: backend,
		Order:   flow.StandardOrder,
		Logger:  zap.NewNop(),
	})
	env.router = gin.New()
	routes.RegisterRoutes(env.router, handlers.NewHandlerBundle(api, &handlers.FlowHandler{Flow: manager, Logger: zap.NewNop()}))
	return env
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestListServices(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.On("ListActive", mock.Anything).Return([]models.Service{{ID: "svc-full", Name: "Full Valet"}}, nil)

	w, body := env.do(t, http.MethodGet, "/api/services", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)

	var services []models.Service
	require.NoError(t, json.Unmarshal(body.Data, &services))
	assert.Equal(t, "Full Valet", services[0].Name)
}

func TestCalculatePrice_Validation(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/api/pricing/calculate", map[string]string{"serviceId": "svc-full"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, models.CodeValidation, body.Error.Code)
}

func TestServicePricing_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.On("ServicePrice", mock.Anything, "svc-full", models.VehicleSizeMedium).
		Return(nil, models.NewAPIError(models.CodeNotFound, "No price is set for this service and vehicle size"))

	w, body := env.do(t, http.MethodGet, "/api/pricing/service-pricing?service_id=svc-full&size=M", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.CodeNotFound, body.Error.Code)
}

func TestAvailability_RequiresDate(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/time-slots/availability", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.slots.On("Availability", mock.Anything, models.SlotQuery{Date: "2026-11-02", Duration: 120}).
		Return([]models.TimeSlot{{ID: "slot-1", IsAvailable: true}}, nil)
	w, body := env.do(t, http.MethodGet, "/api/time-slots/availability?date=2026-11-02&duration=120", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.On("Create", mock.Anything, mock.Anything).Return(models.CreateBookingResponse{
		BookingID: "b-1", BookingReference: "DT-0000AAAA", CustomerID: "cust-1",
	}, nil).Once()
	env.bookings.On("Create", mock.Anything, mock.Anything).
		Return(models.CreateBookingResponse{}, models.NewAPIError(models.CodeSlotUnavailable, "That time slot is no longer available"))

	w, body := env.do(t, http.MethodPost, "/api/bookings/create", models.CreateBookingRequest{TotalPrice: 52})
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.CreateBookingResponse
	require.NoError(t, json.Unmarshal(body.Data, &resp))
	assert.Equal(t, "DT-0000AAAA", resp.BookingReference)

	w, body = env.do(t, http.MethodPost, "/api/bookings/create", models.CreateBookingRequest{TotalPrice: 52})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.CodeSlotUnavailable, body.Error.Code)
}

func TestBookingLifecycleRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.On("Confirm", mock.Anything, "b-1").Return(models.Booking{ID: "b-1", Status: models.BookingStatusConfirmed}, nil)
	env.bookings.On("Reschedule", mock.Anything, "b-1", "slot-2").Return(models.Booking{ID: "b-1"}, nil)
	env.bookings.On("Cancel", mock.Anything, "b-1", "").Return(models.Booking{ID: "b-1", Status: models.BookingStatusCancelled}, nil)
	env.bookings.On("Get", mock.Anything, "missing").Return(models.BookingDetail{}, models.NewAPIError(models.CodeNotFound, "Booking not found"))

	w, _ := env.do(t, http.MethodPost, "/api/bookings/b-1/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/bookings/b-1/reschedule", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = env.do(t, http.MethodPost, "/api/bookings/b-1/reschedule", map[string]string{"slotId": "slot-2"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/bookings/b-1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := env.do(t, http.MethodGet, "/api/customer/bookings/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Booking not found", body.Error.Message)
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	env := newTestEnv(t)
	env.customers.On("ValidateUser", mock.Anything, "sam@example.com", "").
		Return(models.UserLookup{}, assert.AnError)

	w, body := env.do(t, http.MethodPost, "/api/booking/validate-user", map[string]string{"email": "sam@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, models.CodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, assert.AnError.Error())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
