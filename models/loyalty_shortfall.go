package models

import "time"

// LoyaltyShortfall records the part of a cancellation reversal that could
// not be collected because the user had already spent the earned points.
// The balance is capped at zero instead of going negative; the gap lands
// here for manual reconciliation instead of being dropped.
type LoyaltyShortfall struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	LoyaltyAccountID uint   `gorm:"index;column:loyalty_account_id" json:"loyalty_account_id"`
	BookingID        uint   `gorm:"index;column:booking_id" json:"booking_id"`
	Points           int    `json:"points"`
	Reason           string `gorm:"size:255" json:"reason"`
}
