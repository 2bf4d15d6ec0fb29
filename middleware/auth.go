package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"staybook-backend/models"
	"staybook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserIDKey = "userId"
	ContextRoleKey   = "role"
)

func jwtSecret() []byte {
	return []byte(utils.EnvOrDefault("JWT_SECRET", "dev-secret-change-me"))
}

// IssueToken signs a JWT carrying the user id and role claims the booking
// engine trusts as already authenticated.
func IssueToken(user *models.User, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": user.Role,
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Duration(ttlHours) * time.Hour)),
		"iat":  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

const bearerPrefix = "Bearer "

func parseBearer(c *gin.Context) (uint, string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return 0, "", fmt.Errorf("missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return 0, "", fmt.Errorf("authorization scheme must be Bearer")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return 0, "", fmt.Errorf("empty bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("unexpected claims type")
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", fmt.Errorf("missing sub claim")
	}
	role, _ := claims["role"].(string)
	if !models.ValidRole(role) {
		role = models.RoleGuest
	}
	return uint(sub), role, nil
}

// RequireAuth rejects requests without a valid token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := parseBearer(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through as plain guests (guest-authored bookings need
// no account).
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, err := parseBearer(c); err == nil {
			c.Set(ContextUserIDKey, userID)
			c.Set(ContextRoleKey, role)
		}
		c.Next()
	}
}
