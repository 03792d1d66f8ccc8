package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAssigned   BookingStatus = "assigned"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// Location is where the breakdown happened
type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
}

// Cost breakdown, populated once the job is priced
type Cost struct {
	BasePrice         *float64 `json:"basePrice"`
	AdditionalCharges *float64 `json:"additionalCharges"`
	Tax               *float64 `json:"tax"`
	TotalAmount       *float64 `json:"totalAmount"`
}

type Payment struct {
	Method        PaymentMethod `json:"method"`
	Status        string        `json:"status"` // pending, completed, failed
	TransactionID string        `json:"transactionId"`
}

// Rating is set at most once by the owning customer
type Rating struct {
	Score   *int       `json:"score"`
	Comment string     `json:"comment"`
	RatedAt *time.Time `json:"ratedAt"`
}

type Booking struct {
	gorm.Model
	BookingReference   string        `json:"bookingReference" gorm:"column:booking_reference;uniqueIndex;not null"`
	UserID             uint          `json:"userId" gorm:"not null"`
	User               User          `json:"user"`
	ServiceID          uint          `json:"serviceId" gorm:"not null"`
	Service            Service       `json:"service"`
	VehicleDetails     string        `json:"vehicleDetails" gorm:"column:vehicle_details;not null"`
	Problem            string        `json:"problem" gorm:"not null"`
	Location           Location      `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Status             BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	EstimatedArrival   *time.Time    `json:"estimatedArrival" gorm:"column:estimated_arrival"`
	ActualArrival      *time.Time    `json:"actualArrival" gorm:"column:actual_arrival"`
	CompletionTime     *time.Time    `json:"completionTime" gorm:"column:completion_time"`
	AssignedOperatorID *uint         `json:"assignedOperatorId" gorm:"column:assigned_operator_id"`
	AssignedOperator   *User         `json:"assignedOperator" gorm:"foreignKey:AssignedOperatorID"`
	Cost               Cost          `json:"cost" gorm:"embedded;embeddedPrefix:cost_"`
	Payment            Payment       `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	Rating             Rating        `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	Notes              string        `json:"notes"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// Rated reports whether the owner already submitted a rating
func (b *Booking) Rated() bool {
	return b.Rating.Score != nil
}

// IsTerminal reports whether the status has no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAssigned, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// statusTransitions is the allowed edge set of the booking lifecycle.
// Completed and cancelled are terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAssigned, BookingStatusCancelled},
	BookingStatusAssigned:   {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
