package controllers

import (
	"net/http"

	"staybook-backend/services"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoyaltyController struct {
	LoyaltySvc *services.LoyaltyService
}

func NewLoyaltyController(svc *services.LoyaltyService) *LoyaltyController {
	return &LoyaltyController{LoyaltySvc: svc}
}

// GetAccount returns the caller's point balance. Accounts are created
// lazily on first earn, so a user who never earned sees a zero balance.
func (lc *LoyaltyController) GetAccount(c *gin.Context) {
	actor := actorFrom(c)
	if actor.UserID == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	account, err := lc.LoyaltySvc.Account(*actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, account)
}

// GetTransactions returns the caller's ledger, newest first.
func (lc *LoyaltyController) GetTransactions(c *gin.Context) {
	actor := actorFrom(c)
	if actor.UserID == nil {
		utils.JSONError(c, http.StatusUnauthorized, "unauthenticated")
		return
	}

	entries, err := lc.LoyaltySvc.Transactions(*actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entries)
}
