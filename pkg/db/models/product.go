package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product mirrors a host-CMS equipment listing. LegacyID is the numeric id
// clients use on the wire.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LegacyID    int            `gorm:"column:legacy_id;not null;uniqueIndex"`
	Name        string         `gorm:"column:name;not null"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	StockQty    *int           `gorm:"column:stock_qty"`
	Purchasable bool           `gorm:"column:purchasable;not null;default:true"`
	Published   bool           `gorm:"column:published;not null;default:true"`
	MenuOrder   int            `gorm:"column:menu_order;not null;default:0"`
	Categories  pq.StringArray `gorm:"column:categories;type:text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ManagesStock reports whether the listing tracks inventory. A nil StockQty
// means stock is unmanaged and any quantity is accepted.
func (p *Product) ManagesStock() bool {
	return p != nil && p.StockQty != nil
}

// HasCategory reports whether the listing carries the given category slug.
func (p *Product) HasCategory(category string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
