package models

import (
	"time"

	"github.com/google/uuid"
)

// Villa is a bookable property whose stay window bounds equipment rentals.
type Villa struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LegacyID     int        `gorm:"column:legacy_id;not null;uniqueIndex"`
	Name         string     `gorm:"column:name;not null"`
	CalendarID   string     `gorm:"column:calendar_id"`
	BookingStart *time.Time `gorm:"column:booking_start"`
	BookingEnd   *time.Time `gorm:"column:booking_end"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// VillaProduct relates a villa to the equipment offered alongside it.
type VillaProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VillaID   uuid.UUID `gorm:"column:villa_id;type:uuid;not null;uniqueIndex:idx_villa_products_pair"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_villa_products_pair"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
