package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Catalogue and pricing endpoints
	ListServicesHandler   gin.HandlerFunc
	CalculatePriceHandler gin.HandlerFunc
	ServicePricingHandler gin.HandlerFunc
	PriceBreakdownHandler gin.HandlerFunc

	// Customer and availability endpoints
	ValidateUserHandler gin.HandlerFunc
	AvailabilityHandler gin.HandlerFunc

	// Booking endpoints
	GetBookingHandler        gin.HandlerFunc
	CreateBookingHandler     gin.HandlerFunc
	ConfirmBookingHandler    gin.HandlerFunc
	RescheduleBookingHandler gin.HandlerFunc
	CancelBookingHandler     gin.HandlerFunc

	// Booking flow endpoints
	CreateSessionHandler  gin.HandlerFunc
	GetSessionHandler     gin.HandlerFunc
	DeleteSessionHandler  gin.HandlerFunc
	UpdateFormHandler     gin.HandlerFunc
	MoveStepHandler       gin.HandlerFunc
	FlowPriceHandler      gin.HandlerFunc
	FlowUserLookupHandler gin.HandlerFunc
	FlowSlotsHandler      gin.HandlerFunc
	FlowServicesHandler   gin.HandlerFunc
	FlowRebookHandler     gin.HandlerFunc
	FlowSubmitHandler     gin.HandlerFunc
}

// NewHandlerBundle wires the API and flow handlers into a bundle.
func NewHandlerBundle(api *BookingAPIHandler, fh *FlowHandler) *HandlerBundle {
	return &HandlerBundle{
		ListServicesHandler:   api.ListServices,
		CalculatePriceHandler: api.CalculatePrice,
		ServicePricingHandler: api.ServicePricing,
		PriceBreakdownHandler: api.PriceBreakdown,

		ValidateUserHandler: api.ValidateUser,
		AvailabilityHandler: api.Availability,

		GetBookingHandler:        api.GetBooking,
		CreateBookingHandler:     api.CreateBooking,
		ConfirmBookingHandler:    api.ConfirmBooking,
		RescheduleBookingHandler: api.RescheduleBooking,
		CancelBookingHandler:     api.CancelBooking,

		CreateSessionHandler:  fh.CreateSession,
		GetSessionHandler:     fh.GetSession,
		DeleteSessionHandler:  fh.DeleteSession,
		UpdateFormHandler:     fh.UpdateForm,
		MoveStepHandler:       fh.MoveStep,
		FlowPriceHandler:      fh.CalculatePrice,
		FlowUserLookupHandler: fh.LookupUser,
		FlowSlotsHandler:      fh.LoadSlots,
		FlowServicesHandler:   fh.LoadServices,
		FlowRebookHandler:     fh.Rebook,
		FlowSubmitHandler:     fh.Submit,
	}
}
