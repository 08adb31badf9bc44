package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed-or-pending detailing appointment.
type Booking struct {
	ID                 string          `bson:"id" json:"id"`
	Reference          string          `bson:"reference" json:"reference"`
	CustomerID         string          `bson:"customerId" json:"customerId"`
	ServiceID          string          `bson:"serviceId" json:"serviceId"`
	ServiceName        string          `bson:"serviceName" json:"serviceName"`
	Vehicle            Vehicle         `bson:"vehicle" json:"vehicle"`
	Address            Address         `bson:"address" json:"address"`
	Slot               SlotSelection   `bson:"slot" json:"slot"`
	Status             BookingStatus   `bson:"status" json:"status"`
	TotalPrice         float64         `bson:"totalPrice" json:"totalPrice"`
	Pricing            *PriceBreakdown `bson:"pricing,omitempty" json:"pricing,omitempty"`
	Notes              string          `bson:"notes,omitempty" json:"notes,omitempty"`
	RebookedFrom       string          `bson:"rebookedFrom,omitempty" json:"rebookedFrom,omitempty"`
	CancellationReason string          `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time      `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the booking still holds its slot.
func (b Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// BookingSummary is the short form listed on a customer's recent bookings.
type BookingSummary struct {
	ID          string        `json:"id"`
	Reference   string        `json:"reference"`
	ServiceID   string        `json:"serviceId"`
	ServiceName string        `json:"serviceName"`
	Date        string        `json:"date"`
	Status      BookingStatus `json:"status"`
	TotalPrice  float64       `json:"totalPrice"`
}

func (b Booking) Summary() BookingSummary {
	return BookingSummary{
		ID:          b.ID,
		Reference:   b.Reference,
		ServiceID:   b.ServiceID,
		ServiceName: b.ServiceName,
		Date:        b.Slot.Date,
		Status:      b.Status,
		TotalPrice:  b.TotalPrice,
	}
}

// BookingDetail is the customer-facing view of one booking.
type BookingDetail struct {
	Booking  Booking   `json:"booking"`
	Service  *Service  `json:"service,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// CreateBookingRequest is the body of POST /bookings/create.
type CreateBookingRequest struct {
	Customer     BookingCustomer      `json:"customer"`
	Vehicle      Vehicle              `json:"vehicle"`
	Address      Address              `json:"address"`
	Services     []BookingServiceLine `json:"services"`
	TimeSlot     SlotSelection        `json:"timeSlot"`
	TotalPrice   float64              `json:"totalPrice"`
	Pricing      *PriceBreakdown      `json:"pricing,omitempty"`
	RebookedFrom string               `json:"rebookedFrom,omitempty"`
	Notes        string               `json:"notes,omitempty"`
}

type BookingCustomer struct {
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Name           string `json:"name"`
	IsExistingUser bool   `json:"isExistingUser"`
	Password       string `json:"password,omitempty"`
}

type BookingServiceLine struct {
	ServiceID string  `json:"serviceId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Duration  int     `json:"duration"`
}

// CreateBookingResponse is returned after a booking has been stored.
type CreateBookingResponse struct {
	BookingID             string `json:"bookingId"`
	BookingReference      string `json:"bookingReference"`
	CustomerID            string `json:"customerId"`
	RequiresPasswordSetup bool   `json:"requiresPasswordSetup,omitempty"`
	PasswordSetupToken    string `json:"passwordSetupToken,omitempty"`
}

// RescheduleRequest moves a booking to another slot.
type RescheduleRequest struct {
	SlotID string `json:"slotId" binding:"required"`
}

// CancelRequest cancels a booking.
type CancelRequest struct {
	Reason string `json:"reason"`
}
