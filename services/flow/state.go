package flow

import (
	"time"

	"detailbook/models"
)

const DefaultSessionExpiry = 30 * time.Minute

// State is everything the wizard knows about one customer's booking in progress.
type State struct {
	CurrentStep     int                    `json:"currentStep"`
	FormData        models.FormData        `json:"formData"`
	CalculatedPrice *models.PriceBreakdown `json:"calculatedPrice,omitempty"`

	AvailableSlots    []models.TimeSlot       `json:"availableSlots"`
	AvailableServices []models.Service        `json:"availableServices"`
	UserVehicles      []models.Vehicle        `json:"userVehicles"`
	UserAddresses     []models.Address        `json:"userAddresses"`
	RecentBookings    []models.BookingSummary `json:"recentBookings"`
	IsExistingUser    bool                    `json:"isExistingUser"`

	IsRebooking  bool   `json:"isRebooking"`
	RebookedFrom string `json:"rebookedFrom,omitempty"`

	IsLoading    bool   `json:"isLoading"`
	IsSubmitting bool   `json:"isSubmitting"`
	Error        string `json:"error,omitempty"`

	SessionTimestamp time.Time     `json:"sessionTimestamp"`
	SessionExpiry    time.Duration `json:"sessionExpiry"`
}

// NewState returns a blank session stamped at now.
func NewState(now time.Time, expiry time.Duration) State {
	if expiry <= 0 {
		expiry = DefaultSessionExpiry
	}
	return State{
		CurrentStep:       FirstStep,
		AvailableSlots:    []models.TimeSlot{},
		AvailableServices: []models.Service{},
		UserVehicles:      []models.Vehicle{},
		UserAddresses:     []models.Address{},
		RecentBookings:    []models.BookingSummary{},
		SessionTimestamp:  now,
		SessionExpiry:     expiry,
	}
}
