package utils

import (
	"fmt"
	"strings"
	"time"
)

// BookingReferencePrefix is the fixed prefix of every booking reference.
const BookingReferencePrefix = "VBA"

// GenerateBookingReference builds a short human-facing booking identifier:
// the VBA prefix followed by the 6 low-order digits of the current
// millisecond timestamp. Two bookings created inside the same low-order
// window collide, so the caller must rely on the unique index on
// booking_reference and regenerate on a duplicate-key error.
func GenerateBookingReference() string {
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())
	return strings.ToUpper(BookingReferencePrefix + timestamp[len(timestamp)-6:])
}
