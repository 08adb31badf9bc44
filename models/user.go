package models

import "time"

// Customer is a persisted customer account.
type Customer struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	PasswordSet  bool      `bson:"passwordSet" json:"passwordSet"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserDetails is the contact step of the booking flow.
type UserDetails struct {
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Name           string `json:"name"`
	IsExistingUser bool   `json:"isExistingUser"`
	Password       string `json:"password,omitempty"`
}

// UserLookup is the validate-user response.
type UserLookup struct {
	IsExistingUser bool             `json:"isExistingUser"`
	User           *Customer        `json:"user,omitempty"`
	Vehicles       []Vehicle        `json:"vehicles,omitempty"`
	Addresses      []Address        `json:"addresses,omitempty"`
	RecentBookings []BookingSummary `json:"recentBookings,omitempty"`
}

// ValidateUserRequest is the body of POST /booking/validate-user.
type ValidateUserRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}
