package handlers

import (
	"context"
	"net/http"

	"detailbook/models"
	"detailbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	Quote(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error)
	ServicePrice(ctx context.Context, serviceID string, size models.VehicleSize) (map[string]float64, error)
	Breakdown(ctx context.Context, req models.BreakdownRequest) (models.PriceBreakdown, error)
}

type CustomerService interface {
	ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error)
}

type SlotService interface {
	Availability(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error)
}

type BookingService interface {
	Get(ctx context.Context, id string) (models.BookingDetail, error)
	Create(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error)
	Confirm(ctx context.Context, id string) (models.Booking, error)
	Reschedule(ctx context.Context, id, slotID string) (models.Booking, error)
	Cancel(ctx context.Context, id, reason string) (models.Booking, error)
}

// BookingAPIHandler serves the catalogue, pricing, customer, availability and
// booking endpoints.
type BookingAPIHandler struct {
	Catalog   CatalogService
	Customers CustomerService
	Slots     SlotService
	Bookings  BookingService
	Logger    *zap.Logger
}

func (h *BookingAPIHandler) ListServices(c *gin.Context) {
	services, err := h.Catalog.ListActive(c.Request.Context())
	if err != nil {
		getLogger(c, h.Logger).Error("ListServices: failed to list services", zap.Error(err))
		utils.JSONErrorFrom(c, err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	utils.JSONSuccess(c, http.StatusOK, services)
}

func (h *BookingAPIHandler) CalculatePrice(c *gin.Context) {
	var req models.PriceQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "serviceId and vehicleSize are required", models.CodeValidation)
		return
	}
	quote, err := h.Catalog.Quote(c.Request.Context(), req.ServiceID, req.VehicleSize)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

func (h *BookingAPIHandler) ServicePricing(c *gin.Context) {
	serviceID := c.Query("service_id")
	size := models.VehicleSize(c.Query("size"))
	if serviceID == "" || size == "" {
		utils.JSONError(c, http.StatusBadRequest, "service_id and size are required", models.CodeValidation)
		return
	}
	price, err := h.Catalog.ServicePrice(c.Request.Context(), serviceID, size)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, price)
}

func (h *BookingAPIHandler) PriceBreakdown(c *gin.Context) {
	var req models.BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "serviceId, vehicleSize and postcode are required", models.CodeValidation)
		return
	}
	breakdown, err := h.Catalog.Breakdown(c.Request.Context(), req)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, breakdown)
}

func (h *BookingAPIHandler) ValidateUser(c *gin.Context) {
	var req models.ValidateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", models.CodeValidation)
		return
	}
	lookup, err := h.Customers.ValidateUser(c.Request.Context(), req.Email, req.Phone)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, lookup)
}

func (h *BookingAPIHandler) Availability(c *gin.Context) {
	var q models.SlotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "date is required (YYYY-MM-DD)", models.CodeValidation)
		return
	}
	slots, err := h.Slots.Availability(c.Request.Context(), q)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, slots)
}

func (h *BookingAPIHandler) GetBooking(c *gin.Context) {
	detail, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail)
}

func (h *BookingAPIHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", models.CodeValidation)
		return
	}
	resp, err := h.Bookings.Create(c.Request.Context(), req)
	if err != nil {
		getLogger(c, h.Logger).Warn("CreateBooking: booking not created", zap.Error(err))
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, resp)
}

func (h *BookingAPIHandler) ConfirmBooking(c *gin.Context) {
	b, err := h.Bookings.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

func (h *BookingAPIHandler) RescheduleBooking(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "slotId is required", models.CodeValidation)
		return
	}
	b, err := h.Bookings.Reschedule(c.Request.Context(), c.Param("id"), req.SlotID)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

func (h *BookingAPIHandler) CancelBooking(c *gin.Context) {
	var req models.CancelRequest
	// The reason is optional, so an empty body is fine.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", models.CodeValidation)
			return
		}
	}
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		utils.JSONErrorFrom(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}
