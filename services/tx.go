package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTxAttempts = 3

// forUpdate adds SELECT ... FOR UPDATE on MySQL. The sqlite test database is
// a single writer and does not speak FOR UPDATE, so the clause is skipped
// there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// runSerialized runs fn in a transaction and retries a bounded number of
// times when MySQL kills it as a deadlock victim or a lock wait times out.
// Exhausted retries surface as ErrConcurrencyConflict.
func runSerialized(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil {
			return nil
		}
		if !isLockConflict(err) {
			return err
		}
		log.Printf("⚠️  lock conflict (attempt %d/%d), retrying: %v", attempt, maxTxAttempts, err)
		time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
	}
	return fmt.Errorf("retries exhausted: %v: %w", err, ErrConcurrencyConflict)
}

// isLockConflict matches MySQL 1213 (deadlock) and 1205 (lock wait timeout).
func isLockConflict(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}
