package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/collectionaura/rentalcart/pkg/enums"
)

// Order snapshots a session's cart at checkout.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID     string            `gorm:"column:session_id;not null;index"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null"`
	TotalCents    int               `gorm:"column:total_cents;not null"`
	ArrivalNote   *string           `gorm:"column:arrival_note"`
	Lines         []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
