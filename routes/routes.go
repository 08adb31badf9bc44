package routes

import (
	"net/http"
	"time"

	"detailbook/handlers"
	"detailbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers service listing and pricing endpoints.
func RegisterCatalogRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/services", hb.ListServicesHandler)

	pricing := api.Group("/pricing")
	{
		pricing.POST("/calculate", hb.CalculatePriceHandler)
		pricing.GET("/service-pricing", hb.ServicePricingHandler)
		pricing.POST("/breakdown", hb.PriceBreakdownHandler)
	}
}

// RegisterBookingRoutes registers customer, availability and booking endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/booking/validate-user", hb.ValidateUserHandler)
	api.GET("/time-slots/availability", hb.AvailabilityHandler)
	api.GET("/customer/bookings/:id", hb.GetBookingHandler)

	bookings := api.Group("/bookings")
	{
		bookings.POST("/create", hb.CreateBookingHandler)
		bookings.POST("/:id/confirm", hb.ConfirmBookingHandler)
		bookings.POST("/:id/reschedule", hb.RescheduleBookingHandler)
		bookings.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterFlowRoutes registers the booking wizard session endpoints.
func RegisterFlowRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	sessions := api.Group("/flow/sessions")
	{
		sessions.POST("", hb.CreateSessionHandler)
		sessions.GET("/:id", hb.GetSessionHandler)
		sessions.DELETE("/:id", hb.DeleteSessionHandler)
		sessions.PUT("/:id/form/:key", hb.UpdateFormHandler)
		sessions.POST("/:id/step", hb.MoveStepHandler)
		sessions.POST("/:id/price", hb.FlowPriceHandler)
		sessions.POST("/:id/user-lookup", hb.FlowUserLookupHandler)
		sessions.POST("/:id/slots", hb.FlowSlotsHandler)
		sessions.POST("/:id/services", hb.FlowServicesHandler)
		sessions.POST("/:id/rebook", hb.FlowRebookHandler)
		sessions.POST("/:id/submit", hb.FlowSubmitHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	RegisterCatalogRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterFlowRoutes(api, hb)
	RegisterHealthRoute(r)
}
