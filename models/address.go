package models

import (
	"regexp"
	"strings"
	"time"
)

var ukPostcodePattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

type Address struct {
	ID         string    `bson:"id" json:"id,omitempty"`
	CustomerID string    `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Line1      string    `bson:"line1" json:"line1"`
	Line2      string    `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string    `bson:"city" json:"city"`
	Postcode   string    `bson:"postcode" json:"postcode"`
	County     string    `bson:"county,omitempty" json:"county,omitempty"`
	CreatedAt  time.Time `bson:"createdAt,omitempty" json:"-"`
}

// NormalizePostcode upper-cases a postcode and collapses inner whitespace.
func NormalizePostcode(postcode string) string {
	return strings.Join(strings.Fields(strings.ToUpper(postcode)), " ")
}

// ValidUKPostcode checks the shape of a UK postcode, e.g. "SW1A 1AA".
func ValidUKPostcode(postcode string) bool {
	return ukPostcodePattern.MatchString(NormalizePostcode(postcode))
}
