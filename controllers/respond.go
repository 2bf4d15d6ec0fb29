package controllers

import (
	"errors"
	"net/http"

	"staybook-backend/middleware"
	"staybook-backend/models"
	"staybook-backend/services"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
)

// actorFrom rebuilds the acting identity the auth middleware stashed on the
// context. Anonymous requests come back as a plain guest with no user id.
func actorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{Role: models.RoleGuest}
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint); ok2 && id > 0 {
			actor.UserID = &id
		}
	}
	if v, ok := c.Get(middleware.ContextRoleKey); ok {
		if role, ok2 := v.(string); ok2 && role != "" {
			actor.Role = role
		}
	}
	return actor
}

// respondServiceError maps the service error taxonomy onto HTTP codes.
// Every failure is surfaced with its sentinel message; nothing is swallowed.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrHotelNotFound),
		errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrRedemptionLimitExceeded),
		errors.Is(err, services.ErrLoyaltyAccountRequired):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInsufficientRooms),
		errors.Is(err, services.ErrConcurrencyConflict),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrBookingNotCancellable):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrPaymentFailed):
		utils.JSONError(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, services.ErrRefundFailed):
		utils.JSONError(c, http.StatusBadGateway, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
	}
}
