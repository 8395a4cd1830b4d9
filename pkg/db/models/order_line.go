package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLine freezes the product snapshot for one cart line at checkout.
// RentalDays is 1 for plain lines so TotalCents is always qty * price * days.
type OrderLine struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      int        `gorm:"column:product_id;not null"`
	Name           string     `gorm:"column:name;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	Quantity       int        `gorm:"column:quantity;not null"`
	RentalStart    *time.Time `gorm:"column:rental_start"`
	RentalEnd      *time.Time `gorm:"column:rental_end"`
	RentalDays     int        `gorm:"column:rental_days;not null;default:1"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
