package models

import "time"

// Ledger entry kinds.
const (
	PointsKindEarn          = "earn"
	PointsKindRedeem        = "redeem"
	PointsKindReversal      = "reversal"       // offsets an earn after cancellation
	PointsKindRedeemRestore = "redeem_restore" // gives redeemed points back after cancellation
)

// PointsTransaction is append-only: corrections are new offsetting rows,
// never edits.
type PointsTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	LoyaltyAccountID uint  `gorm:"index;column:loyalty_account_id" json:"loyalty_account_id"`
	BookingID        *uint `gorm:"index;column:booking_id" json:"booking_id,omitempty"`

	// Positive = earn/restore, negative = redemption/reversal.
	PointsDelta int    `gorm:"column:points_delta" json:"pointsDelta"`
	Kind        string `gorm:"size:32;index" json:"kind"`
	Description string `gorm:"size:255" json:"description"`
}
