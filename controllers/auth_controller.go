package controllers

import (
	"errors"
	"net/http"
	"strings"

	"staybook-backend/middleware"
	"staybook-backend/models"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type registerPayload struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		FullName:     strings.TrimSpace(payload.FullName),
		Email:        strings.ToLower(strings.TrimSpace(payload.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleGuest,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") {
			utils.JSONError(c, http.StatusConflict, "email already registered")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, user)
}

func (a *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	var user models.User
	err := a.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(payload.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to look up user")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.IssueToken(&user, utils.EnvIntOrDefault("JWT_TTL_HOURS", 72))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}
