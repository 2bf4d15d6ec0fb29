package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"staybook-backend/models"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HotelController exposes the read-only catalog the booking engine consumes.
// Listing management lives elsewhere in the system.
type HotelController struct {
	DB *gorm.DB
}

func NewHotelController(db *gorm.DB) *HotelController {
	return &HotelController{DB: db}
}

func (h *HotelController) GetHotels(c *gin.Context) {
	var hotels []models.Hotel
	if err := h.DB.Order("id").Find(&hotels).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list hotels")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotels)
}

func (h *HotelController) GetHotelByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel id")
		return
	}

	var hotel models.Hotel
	if err := h.DB.First(&hotel, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "hotel not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load hotel")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}
