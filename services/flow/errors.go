package flow

import (
	"errors"

	"detailbook/models"
)

var (
	ErrMissingPriceInputs   = errors.New("select a service and vehicle before pricing")
	ErrIncompleteBooking    = errors.New("please complete all booking details")
	ErrSubmissionInProgress = errors.New("booking submission already in progress")
	ErrUnknownFormKey       = errors.New("unknown form field")
	ErrSessionNotFound      = errors.New("booking session not found")
	ErrUnknownStep          = errors.New("unknown booking step")
)

// errorMessage turns a backend failure into the text shown on the wizard.
func errorMessage(err error, fallback string) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
