package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"staybook-backend/models"

	"gorm.io/gorm"
)

const (
	earnRate          = 0.10 // points per currency unit paid
	pointValue        = 1.0  // currency units per point redeemed
	maxDiscountsShare = 0.5  // redemption may cover at most half the booking
)

// LoyaltyService keeps the points ledger. points_transactions is the source
// of truth and is append-only; the balance cached on loyalty_accounts is
// updated in the same transaction that appends an entry. Every mutation
// locks the account row first, so concurrent bookings for one user serialize
// instead of losing updates.
type LoyaltyService struct {
	DB *gorm.DB
}

func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{DB: db}
}

type RedemptionResult struct {
	DiscountAmount float64 `json:"discountAmount"`
	NewBalance     int     `json:"newBalance"`
}

// PointsForAmount is the earn rule: floor(amount × 0.10).
func PointsForAmount(amount float64) int {
	return int(math.Floor(amount * earnRate))
}

// Earn credits points for a paid booking in its own transaction. The
// orchestrator uses earnTx instead, inside the payment transaction.
func (s *LoyaltyService) Earn(userID uint, amount float64, bookingID uint) (int, error) {
	var earned int
	err := runSerialized(s.DB, func(tx *gorm.DB) error {
		var txErr error
		earned, txErr = s.earnTx(tx, userID, amount, bookingID)
		return txErr
	})
	return earned, err
}

// earnTx appends a positive ledger entry and bumps both the cached balance
// and the monotonic total. Idempotent per booking: if an earn entry for the
// booking already exists, nothing happens.
func (s *LoyaltyService) earnTx(tx *gorm.DB, userID uint, amount float64, bookingID uint) (int, error) {
	var prior int64
	if err := tx.Model(&models.PointsTransaction{}).
		Where("booking_id = ? AND kind = ?", bookingID, models.PointsKindEarn).
		Count(&prior).Error; err != nil {
		return 0, fmt.Errorf("failed to check prior earn for booking %d: %w", bookingID, err)
	}
	if prior > 0 {
		log.Printf("loyalty: earn for booking %d already applied, skipping", bookingID)
		return 0, nil
	}

	points := PointsForAmount(amount)
	if points == 0 {
		return 0, nil
	}

	account, err := s.accountForUpdate(tx, userID, true)
	if err != nil {
		return 0, err
	}

	entry := models.PointsTransaction{
		LoyaltyAccountID: account.ID,
		BookingID:        &bookingID,
		PointsDelta:      points,
		Kind:             models.PointsKindEarn,
		Description:      fmt.Sprintf("Earned %d points for booking %d", points, bookingID),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("failed to append earn entry: %w", err)
	}

	if err := tx.Model(account).Updates(map[string]interface{}{
		"points_balance":      gorm.Expr("points_balance + ?", points),
		"total_points_earned": gorm.Expr("total_points_earned + ?", points),
		"last_updated":        time.Now().UTC(),
	}).Error; err != nil {
		return 0, fmt.Errorf("failed to update cached balance: %w", err)
	}

	return points, nil
}

// Redeem converts points into a booking discount in its own transaction.
func (s *LoyaltyService) Redeem(userID uint, points int, preDiscountAmount float64) (RedemptionResult, error) {
	var result RedemptionResult
	err := runSerialized(s.DB, func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.redeemTx(tx, userID, points, preDiscountAmount, nil)
		return txErr
	})
	return result, err
}

// redeemTx validates the redemption rules and appends a negative entry.
// Violations are rejected outright, never clamped, and leave no partial
// mutation behind (the surrounding transaction rolls back).
func (s *LoyaltyService) redeemTx(tx *gorm.DB, userID uint, points int, preDiscountAmount float64, bookingID *uint) (RedemptionResult, error) {
	if points < 1 {
		return RedemptionResult{}, fmt.Errorf("points_to_redeem must be at least 1: %w", ErrValidation)
	}

	discount := float64(points) * pointValue
	if discount > preDiscountAmount*maxDiscountsShare {
		return RedemptionResult{}, fmt.Errorf(
			"discount %.2f exceeds half of booking amount %.2f: %w",
			discount, preDiscountAmount, ErrRedemptionLimitExceeded)
	}

	account, err := s.accountForUpdate(tx, userID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RedemptionResult{}, fmt.Errorf("user %d has no points to redeem: %w", userID, ErrInsufficientPoints)
		}
		return RedemptionResult{}, err
	}
	if points > account.PointsBalance {
		return RedemptionResult{}, fmt.Errorf(
			"requested %d points, balance is %d: %w",
			points, account.PointsBalance, ErrInsufficientPoints)
	}

	entry := models.PointsTransaction{
		LoyaltyAccountID: account.ID,
		BookingID:        bookingID,
		PointsDelta:      -points,
		Kind:             models.PointsKindRedeem,
		Description:      fmt.Sprintf("Redeemed %d points for a %.2f discount", points, discount),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return RedemptionResult{}, fmt.Errorf("failed to append redeem entry: %w", err)
	}

	if err := tx.Model(account).Updates(map[string]interface{}{
		"points_balance": gorm.Expr("points_balance - ?", points),
		"last_updated":   time.Now().UTC(),
	}).Error; err != nil {
		return RedemptionResult{}, fmt.Errorf("failed to update cached balance: %w", err)
	}

	return RedemptionResult{DiscountAmount: discount, NewBalance: account.PointsBalance - points}, nil
}

// Reverse undoes the loyalty effects of a cancelled booking in its own
// transaction. The orchestrator uses reverseTx inside the cancellation
// transaction.
func (s *LoyaltyService) Reverse(bookingID uint) error {
	return runSerialized(s.DB, func(tx *gorm.DB) error {
		return s.reverseTx(tx, bookingID)
	})
}

// reverseTx offsets the booking's earn entries with a negative reversal,
// capped at the current balance (never negative). Any uncollectible part is
// written to loyalty_shortfalls for reconciliation, not dropped. Points the
// user redeemed on the booking come back as a positive restore entry.
// Idempotent per booking.
func (s *LoyaltyService) reverseTx(tx *gorm.DB, bookingID uint) error {
	var entries []models.PointsTransaction
	if err := tx.Where("booking_id = ?", bookingID).Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to load ledger entries for booking %d: %w", bookingID, err)
	}
	if len(entries) == 0 {
		return nil
	}

	earned, redeemed := 0, 0
	accountID := entries[0].LoyaltyAccountID
	for _, e := range entries {
		switch e.Kind {
		case models.PointsKindEarn:
			earned += e.PointsDelta
		case models.PointsKindRedeem:
			redeemed += -e.PointsDelta
		case models.PointsKindReversal, models.PointsKindRedeemRestore:
			log.Printf("loyalty: booking %d already reversed, skipping", bookingID)
			return nil
		}
	}

	var account models.LoyaltyAccount
	if err := forUpdate(tx).First(&account, accountID).Error; err != nil {
		return fmt.Errorf("failed to lock loyalty account %d: %w", accountID, err)
	}

	if earned > 0 {
		collectible := earned
		if collectible > account.PointsBalance {
			collectible = account.PointsBalance
		}
		shortfall := earned - collectible

		entry := models.PointsTransaction{
			LoyaltyAccountID: account.ID,
			BookingID:        &bookingID,
			PointsDelta:      -collectible,
			Kind:             models.PointsKindReversal,
			Description:      fmt.Sprintf("Reversed %d of %d earned points for cancelled booking %d", collectible, earned, bookingID),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append reversal entry: %w", err)
		}
		if err := tx.Model(&account).Updates(map[string]interface{}{
			"points_balance": gorm.Expr("points_balance - ?", collectible),
			"last_updated":   time.Now().UTC(),
		}).Error; err != nil {
			return fmt.Errorf("failed to update cached balance: %w", err)
		}
		account.PointsBalance -= collectible

		if shortfall > 0 {
			record := models.LoyaltyShortfall{
				LoyaltyAccountID: account.ID,
				BookingID:        bookingID,
				Points:           shortfall,
				Reason:           "earned points already spent before cancellation",
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record reversal shortfall: %w", err)
			}
			log.Printf("⚠️  loyalty: booking %d reversal short by %d points (account %d)", bookingID, shortfall, account.ID)
		}
	}

	if redeemed > 0 {
		entry := models.PointsTransaction{
			LoyaltyAccountID: account.ID,
			BookingID:        &bookingID,
			PointsDelta:      redeemed,
			Kind:             models.PointsKindRedeemRestore,
			Description:      fmt.Sprintf("Restored %d redeemed points for cancelled booking %d", redeemed, bookingID),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append restore entry: %w", err)
		}
		if err := tx.Model(&account).Updates(map[string]interface{}{
			"points_balance": gorm.Expr("points_balance + ?", redeemed),
			"last_updated":   time.Now().UTC(),
		}).Error; err != nil {
			return fmt.Errorf("failed to update cached balance: %w", err)
		}
	}

	return nil
}

// Account returns the loyalty account for a user, or a zero-balance view if
// none exists yet (accounts are created lazily on first earn).
func (s *LoyaltyService) Account(userID uint) (models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := s.DB.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.LoyaltyAccount{UserID: userID}, nil
	}
	if err != nil {
		return account, fmt.Errorf("failed to load loyalty account for user %d: %w", userID, err)
	}
	return account, nil
}

// Transactions returns the user's ledger, newest first.
func (s *LoyaltyService) Transactions(userID uint) ([]models.PointsTransaction, error) {
	account, err := s.Account(userID)
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return []models.PointsTransaction{}, nil
	}

	var entries []models.PointsTransaction
	if err := s.DB.
		Where("loyalty_account_id = ?", account.ID).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load ledger for user %d: %w", userID, err)
	}
	return entries, nil
}

// accountForUpdate locks the account row for the rest of the transaction.
// With create set, a missing account is created lazily first.
func (s *LoyaltyService) accountForUpdate(tx *gorm.DB, userID uint, create bool) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := forUpdate(tx).Where("user_id = ?", userID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lock loyalty account for user %d: %w", userID, err)
	}
	if !create {
		return nil, err
	}

	account = models.LoyaltyAccount{UserID: userID, LastUpdated: time.Now().UTC()}
	if err := tx.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create loyalty account for user %d: %w", userID, err)
	}
	return &account, nil
}
