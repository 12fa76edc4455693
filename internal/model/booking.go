package model

import "time"

const (
	BookingStatusPending  = "Pending"
	BookingStatusOnTheWay = "On The Way"
)

// BookingDateLayout is the display format of Booking.Date, e.g. "Oct 17"
const BookingDateLayout = "Jan 02"

// Booking is a single service request. ServiceName, Price and Image are a
// snapshot of the catalog item taken when the booking was created.
type Booking struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ServiceName string    `json:"service_name"`
	Price       string    `json:"price"`
	Image       string    `json:"image"`
	Status      string    `json:"status"`
	Date        string    `json:"date"`
	Address     string    `json:"address"`
	ProviderID  *int64    `json:"provider_id"` // nil while Pending
	CreatedAt   time.Time `json:"created_at"`
}

// FinalizeBookingRequest is bound from the booking confirmation form
type FinalizeBookingRequest struct {
	Address string `form:"address" json:"address" binding:"required"`
}
