package models

import "time"

// LoyaltyAccount caches the running balance of the points ledger. The
// points_transactions log is the source of truth; points_balance is a
// materialized view maintained in the same transaction that appends an
// entry. Created lazily the first time a user earns or redeems.
type LoyaltyAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID uint `gorm:"uniqueIndex;column:user_id" json:"user_id"`

	PointsBalance     int `gorm:"column:points_balance" json:"pointsBalance"`
	TotalPointsEarned int `gorm:"column:total_points_earned" json:"totalPointsEarned"`

	LastUpdated time.Time `gorm:"column:last_updated" json:"lastUpdated"`
}
