package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is the single line a session holds for a product. Rental lines
// additionally carry the inclusive date window.
type CartLine struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID   string     `gorm:"column:session_id;not null;uniqueIndex:idx_cart_lines_session_product"`
	ProductID   int        `gorm:"column:product_id;not null;uniqueIndex:idx_cart_lines_session_product"`
	Quantity    int        `gorm:"column:quantity;not null"`
	RentalStart *time.Time `gorm:"column:rental_start"`
	RentalEnd   *time.Time `gorm:"column:rental_end"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// IsRental reports whether the line carries a rental window.
func (l *CartLine) IsRental() bool {
	return l != nil && l.RentalStart != nil && l.RentalEnd != nil
}

// RentalDays counts the days in the rental window, both endpoints included.
// Non-rental lines count as a single day so totals multiply cleanly.
func (l *CartLine) RentalDays() int {
	if !l.IsRental() {
		return 1
	}
	start := l.RentalStart.Truncate(24 * time.Hour)
	end := l.RentalEnd.Truncate(24 * time.Hour)
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
