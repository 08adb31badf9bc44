package booking

import (
	"errors"

	"detailbook/models"
)

var (
	ErrBookingNotFound  = models.NewAPIError(models.CodeNotFound, "Booking not found")
	ErrSlotNotFound     = models.NewAPIError(models.CodeNotFound, "Time slot not found")
	ErrSlotUnavailable  = models.NewAPIError(models.CodeSlotUnavailable, "That time slot is no longer available")
	ErrNoService        = models.NewAPIError(models.CodeValidation, "A booking needs at least one service")
	ErrBookingNotActive = models.NewAPIError(models.CodeInvalidState, "This booking can no longer be changed")
	ErrNotPending       = models.NewAPIError(models.CodeInvalidState, "Only pending bookings can be confirmed")

	errReferenceExhausted = errors.New("could not allocate a unique booking reference")
)

// validationError reports a missing or malformed field in a booking request.
func validationError(msg string) error {
	return models.NewAPIError(models.CodeValidation, msg)
}
