package models

import "time"

// FormData is the per-step input collected by the booking flow.
type FormData struct {
	Service *Service       `json:"service,omitempty"`
	Vehicle *Vehicle       `json:"vehicle,omitempty"`
	Slot    *SlotSelection `json:"slot,omitempty"`
	Address *Address       `json:"address,omitempty"`
	User    *UserDetails   `json:"user,omitempty"`
}

// SessionSnapshot is the persisted part of a booking flow session. Loaded lists,
// loading flags and errors are never stored.
type SessionSnapshot struct {
	CurrentStep      int             `json:"currentStep"`
	FormData         FormData        `json:"formData"`
	CalculatedPrice  *PriceBreakdown `json:"calculatedPrice,omitempty"`
	IsRebooking      bool            `json:"isRebooking,omitempty"`
	RebookedFrom     string          `json:"rebookedFrom,omitempty"`
	SessionTimestamp time.Time       `json:"sessionTimestamp"`
	SessionExpiry    time.Duration   `json:"sessionExpiry"`
}

// Complete reports whether every section of the form has been filled in.
func (f FormData) Complete() bool {
	return f.Service != nil && f.Vehicle != nil && f.Slot != nil && f.Address != nil && f.User != nil
}
