package models

import (
	"time"

	"gorm.io/gorm"
)

// Hotel is read-only to the booking engine: listings are managed elsewhere,
// the engine only consumes total_rooms and price_per_night.
type Hotel struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name          string  `gorm:"size:191" json:"name"`
	City          string  `gorm:"size:128" json:"city"`
	Description   string  `gorm:"type:text" json:"description"`
	TotalRooms    int     `gorm:"column:total_rooms" json:"totalRooms"`
	PricePerNight float64 `gorm:"column:price_per_night" json:"pricePerNight"`
}
