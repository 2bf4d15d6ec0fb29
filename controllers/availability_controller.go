package controllers

import (
	"net/http"
	"strconv"
	"time"

	"staybook-backend/services"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityController struct {
	AvailabilitySvc *services.AvailabilityService
}

func NewAvailabilityController(svc *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{AvailabilitySvc: svc}
}

func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		utils.JSONError(c, http.StatusBadRequest, name+" query parameter is required (YYYY-MM-DD)")
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name+" format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// CheckAvailability handles GET /api/hotels/:id/availability.
func (a *AvailabilityController) CheckAvailability(c *gin.Context) {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel id")
		return
	}

	checkIn, ok := parseDateParam(c, "check_in")
	if !ok {
		return
	}
	checkOut, ok := parseDateParam(c, "check_out")
	if !ok {
		return
	}

	guests, err := strconv.Atoi(c.DefaultQuery("guests", "1"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guests value")
		return
	}

	result, err := a.AvailabilitySvc.CheckAvailability(uint(hotelID), checkIn, checkOut, guests)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}
