package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking lifecycle. There is no Pending state: availability is
// auto-confirmed at creation time, so a booking occupies rooms the instant
// the row exists. Completed is set by the checkout sweep after the stay ends.
const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCancelled = "Cancelled"
	BookingStatusCompleted = "Completed"
)

type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`

	HotelID uint  `gorm:"index;column:hotel_id" json:"hotel_id"`
	UserID  *uint `gorm:"index;column:user_id" json:"user_id,omitempty"` // nil for guest-authored bookings

	GuestName  string `gorm:"size:191" json:"guestName"`
	GuestEmail string `gorm:"size:191" json:"guestEmail"`

	CheckIn        time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut       time.Time `gorm:"column:check_out" json:"check_out"`
	Nights         int       `gorm:"column:nights" json:"nights"`
	NumberOfGuests int       `gorm:"column:number_of_guests" json:"number_of_guests"`

	// RoomsReserved = ceil(guests/2), persisted so occupancy sums never
	// recompute the ratio against historical rows.
	RoomsReserved int `gorm:"column:rooms_reserved" json:"roomsReserved"`

	PreDiscountAmount     float64  `gorm:"column:pre_discount_amount" json:"preDiscountAmount"`
	LoyaltyPointsRedeemed *int     `gorm:"column:loyalty_points_redeemed" json:"loyaltyPointsRedeemed,omitempty"`
	LoyaltyDiscountAmount *float64 `gorm:"column:loyalty_discount_amount" json:"loyaltyDiscountAmount,omitempty"`
	TotalAmount           float64  `gorm:"column:total_amount" json:"totalAmount"`

	Status    string  `gorm:"size:32;index" json:"status"`
	PaymentID *string `gorm:"column:payment_id;size:64" json:"paymentId,omitempty"`

	AccompanyingGuests datatypes.JSON `gorm:"column:accompanying_guests" json:"accompanyingGuests,omitempty"`

	Hotel Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

// Occupies reports whether the booking consumes rooms. Cancelled bookings
// never occupy; Completed ones stay in the historical occupancy sum.
func (b *Booking) Occupies() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCompleted
}

// Overlaps uses half-open [check_in, check_out) interval semantics: two
// stays overlap iff neither is entirely before the other. A booking that
// checks out the morning another checks in does not collide.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// CanTransition guards the tiny state machine. Payment does not move the
// state (Confirmed stays Confirmed, payment_id gets set), so it is not a
// transition here.
func CanTransition(from, to string) bool {
	if from != BookingStatusConfirmed {
		return false // Cancelled and Completed are terminal
	}
	return to == BookingStatusCancelled || to == BookingStatusCompleted
}
