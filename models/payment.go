package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PaymentStatusCompleted = "Completed"
	PaymentStatusRefunded  = "Refunded"
)

// Payment records a successful gateway charge. Failed charges are never
// persisted: the booking just stays Confirmed and unpaid, and the caller
// retries.
type Payment struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BookingID uint    `gorm:"index;column:booking_id" json:"booking_id"`
	Amount    float64 `json:"amount"`
	Status    string  `gorm:"size:32" json:"status"`

	GatewayTxnID string  `gorm:"column:gateway_txn_id;size:64" json:"gatewayTxnId"`
	RefundTxnID  *string `gorm:"column:refund_txn_id;size:64" json:"refundTxnId,omitempty"`

	// Raw gateway payload, kept for manual reconciliation.
	RawResponse datatypes.JSON `gorm:"column:raw_response" json:"-"`
}
