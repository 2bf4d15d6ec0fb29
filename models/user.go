package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles understood by the booking policy. Admin and hotel managers may
// create bookings that skip the guest-facing constraints (walk-ins, long
// stays, intentional overlaps).
const (
	RoleGuest        = "guest"
	RoleHotelManager = "hotel_manager"
	RoleAdmin        = "admin"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FullName     string `json:"fullName"`
	Email        string `gorm:"uniqueIndex;size:191" json:"email"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	Role         string `gorm:"size:32;default:guest" json:"role"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleGuest, RoleHotelManager, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether a role bypasses the guest booking constraints.
func Privileged(role string) bool {
	return role == RoleAdmin || role == RoleHotelManager
}
