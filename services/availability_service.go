package services

import (
	"errors"
	"fmt"
	"time"

	"staybook-backend/models"

	"gorm.io/gorm"
)

// AvailabilityService answers "does this hotel have enough rooms for this
// stay" by scanning the non-cancelled bookings that overlap the requested
// window. Occupancy is always re-derived from the booking rows; there is no
// separate inventory counter to keep in sync.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

type AvailabilityResult struct {
	IsAvailable    bool    `json:"isAvailable"`
	AvailableRooms int     `json:"availableRooms"`
	RequestedRooms int     `json:"requestedRooms"`
	TotalPrice     float64 `json:"totalPrice"`
	Nights         int     `json:"nights"`
}

// RoomsRequired maps guests to rooms at a fixed 2-guests-per-room ratio.
func RoomsRequired(guests int) int {
	return (guests + 1) / 2
}

// StayNights is the day difference between check-in and check-out, floored
// at one night.
func StayNights(checkIn, checkOut time.Time) int {
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

func validateStay(checkIn, checkOut time.Time, guests int) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return fmt.Errorf("check_in and check_out are required: %w", ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("check_out must be after check_in: %w", ErrValidation)
	}
	if guests < 1 || guests > 10 {
		return fmt.Errorf("number_of_guests must be between 1 and 10: %w", ErrValidation)
	}
	return nil
}

// CheckAvailability loads the hotel and computes availability outside any
// booking transaction. The orchestrator does not use this entry point: it
// locks the hotel row itself and calls availabilityForHotel on its own tx.
func (s *AvailabilityService) CheckAvailability(hotelID uint, checkIn, checkOut time.Time, guests int) (AvailabilityResult, error) {
	if err := validateStay(checkIn, checkOut, guests); err != nil {
		return AvailabilityResult{}, err
	}

	var hotel models.Hotel
	if err := s.DB.First(&hotel, hotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AvailabilityResult{}, fmt.Errorf("hotel %d: %w", hotelID, ErrHotelNotFound)
		}
		return AvailabilityResult{}, fmt.Errorf("failed to load hotel %d: %w", hotelID, err)
	}

	return availabilityForHotel(s.DB, &hotel, checkIn, checkOut, guests)
}

// availabilityForHotel computes the result against an already-loaded hotel,
// on whatever db handle the caller is holding (plain or transactional).
func availabilityForHotel(tx *gorm.DB, hotel *models.Hotel, checkIn, checkOut time.Time, guests int) (AvailabilityResult, error) {
	occupied, err := occupiedRooms(tx, hotel.ID, checkIn, checkOut)
	if err != nil {
		return AvailabilityResult{}, err
	}

	requested := RoomsRequired(guests)
	available := hotel.TotalRooms - occupied
	if available < 0 {
		available = 0
	}
	nights := StayNights(checkIn, checkOut)

	return AvailabilityResult{
		IsAvailable:    available >= requested,
		AvailableRooms: available,
		RequestedRooms: requested,
		TotalPrice:     float64(nights) * hotel.PricePerNight,
		Nights:         nights,
	}, nil
}

// occupiedRooms sums rooms_reserved over Confirmed/Completed bookings whose
// half-open [check_in, check_out) interval overlaps the requested one:
// existing.check_in < check_out AND existing.check_out > check_in.
func occupiedRooms(tx *gorm.DB, hotelID uint, checkIn, checkOut time.Time) (int, error) {
	var occupied int64
	err := tx.Model(&models.Booking{}).
		Where("hotel_id = ?", hotelID).
		Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusCompleted}).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Select("COALESCE(SUM(rooms_reserved), 0)").
		Scan(&occupied).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum occupied rooms for hotel %d: %w", hotelID, err)
	}
	return int(occupied), nil
}
