package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"staybook-backend/gateway"
	"staybook-backend/models"
	"staybook-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actor is the authenticated identity the request runs as, supplied by the
// JWT middleware. UserID is nil for unauthenticated (guest) requests.
type Actor struct {
	UserID *uint
	Role   string
}

func (a Actor) Privileged() bool {
	return models.Privileged(a.Role)
}

func (a Actor) Owns(b *models.Booking) bool {
	return a.UserID != nil && b.UserID != nil && *a.UserID == *b.UserID
}

type GuestDraft struct {
	FullName string `json:"fullName"`
	Type     string `json:"type"`
}

type CreateBookingRequest struct {
	HotelID            uint
	GuestName          string
	GuestEmail         string
	CheckIn            time.Time
	CheckOut           time.Time
	NumberOfGuests     int
	PointsToRedeem     int
	AccompanyingGuests []GuestDraft
}

// BookingService owns the booking state machine: availability-checked
// creation, payment settlement with loyalty earning, and cancellation with
// refund. The availability check and the booking insert always share one
// transaction holding the hotel row lock, which closes the check-then-commit
// race between concurrent requests for the same hotel.
type BookingService struct {
	DB          *gorm.DB
	Loyalty     *LoyaltyService
	Refunds     *RefundService
	Gateway     gateway.PaymentGateway
	Invalidator *utils.CacheInvalidator
}

func NewBookingService(db *gorm.DB, loyalty *LoyaltyService, refunds *RefundService, gw gateway.PaymentGateway, inv *utils.CacheInvalidator) *BookingService {
	return &BookingService{DB: db, Loyalty: loyalty, Refunds: refunds, Gateway: gw, Invalidator: inv}
}

func gatewayTimeout() time.Duration {
	return time.Duration(utils.EnvIntOrDefault("PAYMENT_TIMEOUT_SECONDS", 10)) * time.Second
}

// dateOnly drops the time-of-day so stays always span whole nights.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateBooking validates the request under the role-selected policy, then
// atomically re-checks availability and inserts the booking. Redemption, if
// requested, happens in the same transaction; any redemption failure aborts
// the whole creation. The booking occupies rooms the moment it exists —
// payment is a separate follow-up call.
func (s *BookingService) CreateBooking(req CreateBookingRequest, actor Actor) (*models.Booking, error) {
	checkIn := dateOnly(req.CheckIn)
	checkOut := dateOnly(req.CheckOut)

	if err := validateStay(checkIn, checkOut, req.NumberOfGuests); err != nil {
		return nil, err
	}
	if req.GuestName == "" || req.GuestEmail == "" {
		return nil, fmt.Errorf("guest name and email are required: %w", ErrValidation)
	}
	if req.PointsToRedeem < 0 {
		return nil, fmt.Errorf("points_to_redeem must not be negative: %w", ErrValidation)
	}
	if req.PointsToRedeem > 0 && actor.UserID == nil {
		return nil, fmt.Errorf("point redemption requires an account: %w", ErrLoyaltyAccountRequired)
	}
	if err := PolicyForRole(actor.Role).ValidateStayWindow(checkIn, checkOut); err != nil {
		return nil, err
	}

	guestsJSON, _ := json.Marshal(req.AccompanyingGuests)

	var bookingID uint
	err := runSerialized(s.DB, func(tx *gorm.DB) error {
		// The hotel row lock serializes all bookings on this hotel, so the
		// availability read below cannot race another insert.
		var hotel models.Hotel
		if err := forUpdate(tx).First(&hotel, req.HotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("hotel %d: %w", req.HotelID, ErrHotelNotFound)
			}
			return fmt.Errorf("failed to lock hotel %d: %w", req.HotelID, err)
		}

		avail, err := availabilityForHotel(tx, &hotel, checkIn, checkOut, req.NumberOfGuests)
		if err != nil {
			return err
		}
		if !avail.IsAvailable {
			return fmt.Errorf("need %d rooms, %d available: %w",
				avail.RequestedRooms, avail.AvailableRooms, ErrInsufficientRooms)
		}

		booking := models.Booking{
			ReferenceCode:      utils.NewBookingReference(),
			HotelID:            hotel.ID,
			UserID:             actor.UserID,
			GuestName:          req.GuestName,
			GuestEmail:         req.GuestEmail,
			CheckIn:            checkIn,
			CheckOut:           checkOut,
			Nights:             avail.Nights,
			NumberOfGuests:     req.NumberOfGuests,
			RoomsReserved:      avail.RequestedRooms,
			PreDiscountAmount:  avail.TotalPrice,
			TotalAmount:        avail.TotalPrice,
			Status:             models.BookingStatusConfirmed,
			AccompanyingGuests: datatypes.JSON(guestsJSON),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if req.PointsToRedeem > 0 {
			redemption, err := s.Loyalty.redeemTx(tx, *actor.UserID, req.PointsToRedeem, avail.TotalPrice, &booking.ID)
			if err != nil {
				return err
			}
			points := req.PointsToRedeem
			if err := tx.Model(&booking).Updates(map[string]interface{}{
				"loyalty_points_redeemed": points,
				"loyalty_discount_amount": redemption.DiscountAmount,
				"total_amount":            avail.TotalPrice - redemption.DiscountAmount,
			}).Error; err != nil {
				return fmt.Errorf("failed to apply redemption discount: %w", err)
			}
		}

		bookingID = booking.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Invalidator.NotifyOccupancyChanged(req.HotelID)
	return s.GetBooking(bookingID)
}

// ProcessPayment charges the gateway for the booking total and, on success,
// records the payment and earns loyalty points in one transaction. A decline
// leaves the booking Confirmed and unpaid so the caller can retry.
func (s *BookingService) ProcessPayment(ctx context.Context, bookingID uint, card gateway.CardDetails, actor Actor) (*models.Booking, error) {
	booking, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != nil && !actor.Owns(booking) && actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("only the booking owner may pay for it: %w", ErrUnauthorized)
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("booking %d is cancelled: %w", bookingID, ErrAlreadyCancelled)
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, fmt.Errorf("booking %d is not payable in status %s: %w", bookingID, booking.Status, ErrValidation)
	}
	if booking.PaymentID != nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrAlreadyPaid)
	}

	chargeCtx, cancel := context.WithTimeout(ctx, gatewayTimeout())
	defer cancel()

	result, err := s.Gateway.Charge(chargeCtx, booking.TotalAmount, card)
	if err != nil {
		return nil, fmt.Errorf("gateway charge: %v: %w", err, ErrPaymentFailed)
	}
	if result.Status != gateway.StatusCompleted {
		return nil, fmt.Errorf("gateway declined charge (txn %s): %w", result.TransactionID, ErrPaymentFailed)
	}

	err = runSerialized(s.DB, func(tx *gorm.DB) error {
		var fresh models.Booking
		if err := forUpdate(tx).First(&fresh, bookingID).Error; err != nil {
			return fmt.Errorf("failed to lock booking %d: %w", bookingID, err)
		}
		if fresh.PaymentID != nil {
			// A concurrent payment won the race after our charge went
			// through; surface it so an operator can void the extra charge.
			log.Printf("⚠️  booking %d was paid concurrently, charge %s needs manual void", bookingID, result.TransactionID)
			return fmt.Errorf("booking %d: %w", bookingID, ErrAlreadyPaid)
		}

		payment := models.Payment{
			ID:           "pay_" + result.TransactionID,
			BookingID:    fresh.ID,
			Amount:       fresh.TotalAmount,
			Status:       models.PaymentStatusCompleted,
			GatewayTxnID: result.TransactionID,
			RawResponse:  datatypes.JSON(result.Raw),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		if err := tx.Model(&fresh).Update("payment_id", payment.ID).Error; err != nil {
			return fmt.Errorf("failed to attach payment to booking: %w", err)
		}

		// Recording the payment and earning points commit together: a
		// payment that succeeded but earned nothing must be impossible.
		if fresh.UserID != nil {
			if _, err := s.Loyalty.earnTx(tx, *fresh.UserID, fresh.TotalAmount, fresh.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBooking(bookingID)
}

// CancelBooking marks the booking Cancelled. Only the owner or an admin may
// cancel; paid bookings are refunded and their loyalty effects reversed in
// the same transaction, so a declined refund aborts the cancellation. Rooms
// free up implicitly: availability only counts non-cancelled rows.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uint, actor Actor) (*models.Booking, error) {
	refundCtx, cancel := context.WithTimeout(ctx, gatewayTimeout())
	defer cancel()

	var hotelID uint
	err := runSerialized(s.DB, func(tx *gorm.DB) error {
		var booking models.Booking
		if err := forUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %d: %w", bookingID, ErrBookingNotFound)
			}
			return fmt.Errorf("failed to lock booking %d: %w", bookingID, err)
		}

		if !actor.Owns(&booking) && actor.Role != models.RoleAdmin {
			return fmt.Errorf("only the booking owner or an admin may cancel: %w", ErrUnauthorized)
		}
		if booking.Status == models.BookingStatusCancelled {
			return fmt.Errorf("booking %d: %w", bookingID, ErrAlreadyCancelled)
		}
		if !models.CanTransition(booking.Status, models.BookingStatusCancelled) {
			return fmt.Errorf("booking %d cannot be cancelled from status %s: %w", bookingID, booking.Status, ErrBookingNotCancellable)
		}

		if booking.PaymentID != nil {
			if err := s.Refunds.RefundAndReverse(refundCtx, tx, s.Loyalty, &booking); err != nil {
				return err
			}
		} else if booking.LoyaltyPointsRedeemed != nil {
			// Unpaid booking that spent points at creation: give them back.
			if err := s.Loyalty.reverseTx(tx, booking.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to mark booking cancelled: %w", err)
		}
		hotelID = booking.HotelID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Invalidator.NotifyOccupancyChanged(hotelID)
	return s.GetBooking(bookingID)
}

func (s *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Hotel").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	return &booking, nil
}

// ListBookings returns the actor's own bookings; admins see everything.
func (s *BookingService) ListBookings(actor Actor) ([]models.Booking, error) {
	q := s.DB.Preload("Hotel").Order("created_at DESC")
	if actor.Role != models.RoleAdmin {
		if actor.UserID == nil {
			return []models.Booking{}, nil
		}
		q = q.Where("user_id = ?", *actor.UserID)
	}

	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, nil
}
