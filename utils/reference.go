package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewBookingReference builds a short human-quotable code like BK-9F2C41D07A3B.
func NewBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(raw[:12])
}
