package services

import (
	"fmt"
	"time"

	"staybook-backend/models"

	"github.com/jinzhu/now"
)

const (
	maxStayNights  = 30
	maxAdvanceDays = 365
)

// BookingPolicy is the role-selected validation variant for the stay window.
// Guests get the full rule set; admins and hotel managers bypass it so the
// front desk can register walk-ins, back-dated stays and intentional
// overlaps.
type BookingPolicy interface {
	ValidateStayWindow(checkIn, checkOut time.Time) error
}

func PolicyForRole(role string) BookingPolicy {
	if models.Privileged(role) {
		return privilegedPolicy{}
	}
	return guestPolicy{}
}

type guestPolicy struct{}

func (guestPolicy) ValidateStayWindow(checkIn, checkOut time.Time) error {
	today := now.With(time.Now().UTC()).BeginningOfDay()

	if checkIn.Before(today) {
		return fmt.Errorf("check_in must not be in the past: %w", ErrValidation)
	}
	if nights := StayNights(checkIn, checkOut); nights > maxStayNights {
		return fmt.Errorf("stay of %d nights exceeds the %d-night limit: %w", nights, maxStayNights, ErrValidation)
	}
	if checkIn.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return fmt.Errorf("check_in is more than %d days ahead: %w", maxAdvanceDays, ErrValidation)
	}
	return nil
}

type privilegedPolicy struct{}

func (privilegedPolicy) ValidateStayWindow(checkIn, checkOut time.Time) error {
	return nil
}
