package services

import (
	"errors"
	"testing"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestRunSerialized_LockConflictRetriesThenSurfaces(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		name   string
		number uint16
	}{
		{"deadlock victim", 1213},
		{"lock wait timeout", 1205},
	}
	for _, tc := range cases {
		attempts := 0
		err := runSerialized(db, func(tx *gorm.DB) error {
			attempts++
			return &mysql.MySQLError{Number: tc.number, Message: "lock conflict"}
		})
		if !errors.Is(err, ErrConcurrencyConflict) {
			t.Fatalf("%s: got %v, want ErrConcurrencyConflict", tc.name, err)
		}
		if attempts != maxTxAttempts {
			t.Fatalf("%s: got %d attempts, want %d", tc.name, attempts, maxTxAttempts)
		}
	}
}

func TestRunSerialized_NonLockErrorIsNotRetried(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	err := runSerialized(db, func(tx *gorm.DB) error {
		attempts++
		return ErrBookingNotFound
	})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("got %v, want ErrBookingNotFound", err)
	}
	if errors.Is(err, ErrConcurrencyConflict) {
		t.Fatalf("plain error must not turn into a concurrency conflict")
	}
	if attempts != 1 {
		t.Fatalf("got %d attempts, want 1", attempts)
	}
}

func TestRunSerialized_SucceedsFirstAttempt(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	if err := runSerialized(db, func(tx *gorm.DB) error {
		attempts++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("got %d attempts, want 1", attempts)
	}
}
