package controllers

import (
	"net/http"
	"strconv"
	"time"

	"staybook-backend/gateway"
	"staybook-backend/services"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateBookingPayload struct {
	HotelID        uint   `json:"hotel_id" binding:"required"`
	GuestName      string `json:"guest_name" binding:"required"`
	GuestEmail     string `json:"guest_email" binding:"required,email"`
	CheckIn        string `json:"check_in" binding:"required"`
	CheckOut       string `json:"check_out" binding:"required"`
	NumberOfGuests int    `json:"number_of_guests" binding:"required"`
	PointsToRedeem int    `json:"points_to_redeem"`

	AccompanyingGuests []services.GuestDraft `json:"accompanying_guests,omitempty"`
}

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return 0, false
	}
	return uint(id), true
}

func parseDateField(c *gin.Context, name, raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name+" format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// CreateBooking handles POST /api/bookings. The booking is auto-confirmed
// when rooms are available; payment is a separate follow-up call.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	checkIn, ok := parseDateField(c, "check_in", payload.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseDateField(c, "check_out", payload.CheckOut)
	if !ok {
		return
	}

	booking, err := bc.BookingSvc.CreateBooking(services.CreateBookingRequest{
		HotelID:            payload.HotelID,
		GuestName:          payload.GuestName,
		GuestEmail:         payload.GuestEmail,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		NumberOfGuests:     payload.NumberOfGuests,
		PointsToRedeem:     payload.PointsToRedeem,
		AccompanyingGuests: payload.AccompanyingGuests,
	}, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.BookingSvc.GetBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Bookings are visible to their owner, to admins, and (for bookings
	// made without an account) to anyone holding the id.
	actor := actorFrom(c)
	if booking.UserID != nil && !actor.Owns(booking) && !actor.Privileged() {
		utils.JSONError(c, http.StatusForbidden, "not your booking")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) GetBookings(c *gin.Context) {
	list, err := bc.BookingSvc.ListBookings(actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// ProcessPayment handles POST /api/bookings/:id/payment. A gateway decline
// leaves the booking Confirmed and unpaid, so the client can retry.
func (bc *BookingController) ProcessPayment(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var card gateway.CardDetails
	if err := c.ShouldBindJSON(&card); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid card details: "+err.Error())
		return
	}

	booking, err := bc.BookingSvc.ProcessPayment(c.Request.Context(), id, card, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	booking, err := bc.BookingSvc.CancelBooking(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
