package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook-backend/gateway"
	"staybook-backend/models"

	"gorm.io/gorm"
)

// RefundService reverses the money and loyalty effects of a paid booking
// when it is cancelled. It runs inside the cancellation transaction: the
// booking row is already locked, so at most one refund call can ever be
// issued for a booking, and a declined refund rolls the whole cancellation
// back instead of leaving a Cancelled booking with an unreconciled payment.
type RefundService struct {
	DB      *gorm.DB
	Gateway gateway.PaymentGateway
}

func NewRefundService(db *gorm.DB, gw gateway.PaymentGateway) *RefundService {
	return &RefundService{DB: db, Gateway: gw}
}

// RefundAndReverse refunds the booking's payment through the gateway, marks
// the payment row Refunded and reverses the loyalty ledger. The gateway call
// runs under the caller's bounded context; a timeout counts as a declined
// refund (ErrRefundFailed), and the caller may retry the cancellation.
func (s *RefundService) RefundAndReverse(ctx context.Context, tx *gorm.DB, loyalty *LoyaltyService, booking *models.Booking) error {
	if booking.PaymentID == nil {
		return nil
	}

	var payment models.Payment
	if err := forUpdate(tx).Where("id = ?", *booking.PaymentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("payment %s referenced by booking %d is missing: %w", *booking.PaymentID, booking.ID, ErrRefundFailed)
		}
		return fmt.Errorf("failed to load payment %s: %w", *booking.PaymentID, err)
	}

	// A payment already flipped to Refunded means a previous cancellation
	// attempt got past the gateway and failed later; don't charge the
	// gateway twice, just redo the local bookkeeping.
	if payment.Status != models.PaymentStatusRefunded {
		result, err := s.Gateway.Refund(ctx, payment.ID, payment.Amount)
		if err != nil {
			return fmt.Errorf("gateway refund for payment %s: %v: %w", payment.ID, err, ErrRefundFailed)
		}
		if result.Status != gateway.StatusRefunded {
			return fmt.Errorf("gateway declined refund for payment %s (txn %s): %w", payment.ID, result.TransactionID, ErrRefundFailed)
		}

		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"status":        models.PaymentStatusRefunded,
			"refund_txn_id": result.TransactionID,
			"updated_at":    time.Now().UTC(),
		}).Error; err != nil {
			return fmt.Errorf("failed to mark payment %s refunded: %w", payment.ID, err)
		}
	}

	if err := loyalty.reverseTx(tx, booking.ID); err != nil {
		return fmt.Errorf("failed to reverse loyalty for booking %d: %w", booking.ID, err)
	}
	return nil
}
