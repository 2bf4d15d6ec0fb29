package services

import "errors"

// Failure taxonomy for the booking engine. Controllers map these onto HTTP
// codes; everything else that bubbles up is a 500. Services wrap them with
// fmt.Errorf("...: %w", Err...) so callers can errors.Is on the sentinel
// while logs keep the detail.
var (
	ErrValidation              = errors.New("validation_failed")
	ErrHotelNotFound           = errors.New("hotel_not_found")
	ErrBookingNotFound         = errors.New("booking_not_found")
	ErrInsufficientRooms       = errors.New("insufficient_rooms")
	ErrInsufficientPoints      = errors.New("insufficient_points")
	ErrRedemptionLimitExceeded = errors.New("redemption_limit_exceeded")
	ErrLoyaltyAccountRequired  = errors.New("loyalty_account_required")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrPaymentFailed           = errors.New("payment_failed")
	ErrRefundFailed            = errors.New("refund_failed")
	ErrAlreadyPaid             = errors.New("booking_already_paid")
	ErrAlreadyCancelled        = errors.New("booking_already_cancelled")
	ErrBookingNotCancellable   = errors.New("booking_not_cancellable")
	ErrConcurrencyConflict     = errors.New("concurrency_conflict")
)
