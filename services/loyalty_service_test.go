package services

import (
	"errors"
	"testing"

	"staybook-backend/models"
)

func TestPointsForAmount_FloorsTenPercent(t *testing.T) {
	cases := []struct {
		amount float64
		points int
	}{
		{1000, 100}, {200, 20}, {149.99, 14}, {9.99, 0}, {0, 0},
	}
	for _, tc := range cases {
		if got := PointsForAmount(tc.amount); got != tc.points {
			t.Fatalf("PointsForAmount(%.2f) = %d, want %d", tc.amount, got, tc.points)
		}
	}
}

func TestEarn_CreatesAccountLazilyAndCredits(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	svc := NewLoyaltyService(db)

	earned, err := svc.Earn(user.ID, 1000, 42)
	if err != nil {
		t.Fatalf("earn: %v", err)
	}
	if earned != 100 {
		t.Fatalf("earned %d points, want 100", earned)
	}

	account, err := svc.Account(user.ID)
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if account.PointsBalance != 100 || account.TotalPointsEarned != 100 {
		t.Fatalf("balance=%d total=%d, want 100/100", account.PointsBalance, account.TotalPointsEarned)
	}

	var entries []models.PointsTransaction
	if err := db.Find(&entries).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(entries) != 1 || entries[0].PointsDelta != 100 || entries[0].Kind != models.PointsKindEarn {
		t.Fatalf("unexpected ledger: %+v", entries)
	}
}

func TestEarn_IdempotentPerBooking(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	svc := NewLoyaltyService(db)

	if _, err := svc.Earn(user.ID, 500, 7); err != nil {
		t.Fatalf("first earn: %v", err)
	}
	earned, err := svc.Earn(user.ID, 500, 7)
	if err != nil {
		t.Fatalf("second earn: %v", err)
	}
	if earned != 0 {
		t.Fatalf("second earn credited %d points, want 0", earned)
	}

	account, _ := svc.Account(user.ID)
	if account.PointsBalance != 50 {
		t.Fatalf("balance %d after double earn, want 50", account.PointsBalance)
	}
}

func TestRedeem_AppliesDiscount(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	seedLoyaltyAccount(t, db, user.ID, 100, 100)
	svc := NewLoyaltyService(db)

	// $200 booking, 80 points: 80 ≤ half of 200, allowed.
	result, err := svc.Redeem(user.ID, 80, 200)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if result.DiscountAmount != 80 {
		t.Fatalf("discount %.2f, want 80.00", result.DiscountAmount)
	}
	if result.NewBalance != 20 {
		t.Fatalf("new balance %d, want 20", result.NewBalance)
	}

	account, _ := svc.Account(user.ID)
	if account.PointsBalance != 20 {
		t.Fatalf("cached balance %d, want 20", account.PointsBalance)
	}
	if account.TotalPointsEarned != 100 {
		t.Fatalf("total earned must not move on redeem, got %d", account.TotalPointsEarned)
	}
}

func TestRedeem_RejectsOverHalfWithoutClamping(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	seedLoyaltyAccount(t, db, user.ID, 200, 200)
	svc := NewLoyaltyService(db)

	// 150 > 0.5 × 200: rejected, not clamped to 100.
	_, err := svc.Redeem(user.ID, 150, 200)
	if !errors.Is(err, ErrRedemptionLimitExceeded) {
		t.Fatalf("got %v, want ErrRedemptionLimitExceeded", err)
	}

	account, _ := svc.Account(user.ID)
	if account.PointsBalance != 200 {
		t.Fatalf("failed redemption must not move balance, got %d", account.PointsBalance)
	}
}

func TestRedeem_InsufficientPoints(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	seedLoyaltyAccount(t, db, user.ID, 10, 10)
	svc := NewLoyaltyService(db)

	if _, err := svc.Redeem(user.ID, 50, 1000); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("got %v, want ErrInsufficientPoints", err)
	}
}

func TestRedeem_NoAccount(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	svc := NewLoyaltyService(db)

	if _, err := svc.Redeem(user.ID, 10, 1000); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("got %v, want ErrInsufficientPoints", err)
	}
}

func TestRedeem_RequiresAtLeastOnePoint(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	seedLoyaltyAccount(t, db, user.ID, 10, 10)
	svc := NewLoyaltyService(db)

	if _, err := svc.Redeem(user.ID, 0, 1000); !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestReverse_OffsetsEarnAndRestoresRedeem(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	seedLoyaltyAccount(t, db, user.ID, 100, 100)
	svc := NewLoyaltyService(db)

	// Booking 5: redeemed 40 at creation, earned 16 at payment.
	if _, err := svc.Redeem(user.ID, 40, 400); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	var redeemEntry models.PointsTransaction
	if err := db.Where("kind = ?", models.PointsKindRedeem).First(&redeemEntry).Error; err != nil {
		t.Fatalf("load redeem entry: %v", err)
	}
	bookingID := uint(5)
	if err := db.Model(&redeemEntry).Update("booking_id", bookingID).Error; err != nil {
		t.Fatalf("tag redeem entry: %v", err)
	}
	if _, err := svc.Earn(user.ID, 160, bookingID); err != nil {
		t.Fatalf("earn: %v", err)
	}

	// balance: 100 - 40 + 16 = 76. Reverse: -16 (earn) +40 (restore) = 100.
	if err := svc.Reverse(bookingID); err != nil {
		t.Fatalf("reverse: %v", err)
	}

	account, _ := svc.Account(user.ID)
	if account.PointsBalance != 100 {
		t.Fatalf("balance %d after reverse, want 100", account.PointsBalance)
	}
	if account.TotalPointsEarned != 116 {
		t.Fatalf("total earned must stay monotonic, got %d, want 116", account.TotalPointsEarned)
	}
}

func TestReverse_CapsAtBalanceAndRecordsShortfall(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	svc := NewLoyaltyService(db)

	// Earn 100 for booking 9, then spend 80 of them elsewhere.
	if _, err := svc.Earn(user.ID, 1000, 9); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if _, err := svc.Redeem(user.ID, 80, 400); err != nil {
		t.Fatalf("redeem elsewhere: %v", err)
	}

	if err := svc.Reverse(9); err != nil {
		t.Fatalf("reverse: %v", err)
	}

	account, _ := svc.Account(user.ID)
	if account.PointsBalance != 0 {
		t.Fatalf("balance %d, want 0 (capped, never negative)", account.PointsBalance)
	}

	var shortfalls []models.LoyaltyShortfall
	if err := db.Find(&shortfalls).Error; err != nil {
		t.Fatalf("load shortfalls: %v", err)
	}
	if len(shortfalls) != 1 || shortfalls[0].Points != 80 || shortfalls[0].BookingID != 9 {
		t.Fatalf("unexpected shortfall records: %+v", shortfalls)
	}
}

func TestReverse_Idempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, models.RoleGuest)
	svc := NewLoyaltyService(db)

	if _, err := svc.Earn(user.ID, 1000, 3); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if err := svc.Reverse(3); err != nil {
		t.Fatalf("first reverse: %v", err)
	}
	if err := svc.Reverse(3); err != nil {
		t.Fatalf("second reverse: %v", err)
	}

	account, _ := svc.Account(user.ID)
	if account.PointsBalance != 0 {
		t.Fatalf("balance %d after double reverse, want 0", account.PointsBalance)
	}
}

func TestReverse_NoLedgerEntriesIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db)

	if err := svc.Reverse(12345); err != nil {
		t.Fatalf("reverse with no entries: %v", err)
	}
}
