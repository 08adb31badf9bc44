package booking

import (
	"net/mail"
	"strings"

	"detailbook/models"
)

const minPasswordLength = 8

func validateCreate(req *models.CreateBookingRequest) error {
	c := &req.Customer
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Name = strings.TrimSpace(c.Name)
	switch {
	case c.Email == "" || c.Phone == "" || c.Name == "":
		return validationError("Customer name, email and phone are required")
	case !validEmail(c.Email):
		return validationError("Please enter a valid email address")
	case c.Password != "" && len(c.Password) < minPasswordLength:
		return validationError("Password must be at least 8 characters")
	}

	v := req.Vehicle
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		return validationError("Vehicle make and model are required")
	}
	if !v.Size.Valid() {
		return validationError("Vehicle size must be one of S, M, L or XL")
	}

	a := &req.Address
	if strings.TrimSpace(a.Line1) == "" || strings.TrimSpace(a.City) == "" {
		return validationError("Address line 1 and city are required")
	}
	if !models.ValidUKPostcode(a.Postcode) {
		return validationError("Please enter a valid UK postcode")
	}
	a.Postcode = models.NormalizePostcode(a.Postcode)

	if len(req.Services) == 0 || req.Services[0].ServiceID == "" {
		return ErrNoService
	}
	if req.TimeSlot.SlotID == "" {
		return validationError("A time slot is required")
	}
	if req.TotalPrice < 0 {
		return validationError("Total price cannot be negative")
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
