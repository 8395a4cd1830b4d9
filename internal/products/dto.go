package products

import (
	"time"

	"github.com/collectionaura/rentalcart/pkg/db/models"
	"github.com/shopspring/decimal"
)

// EquipmentDTO is the catalog shape clients render a product card from.
type EquipmentDTO struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	PriceCents  int      `json:"priceCents"`
	Price       string   `json:"price"`
	StockQty    *int     `json:"stockQty,omitempty"`
	Purchasable bool     `json:"purchasable"`
	Categories  []string `json:"categories"`
}

// CatalogDTO bundles a villa's equipment with the booking window that bounds
// rental date pickers.
type CatalogDTO struct {
	VillaID      int            `json:"villaId"`
	BookingStart *string        `json:"bookingStart,omitempty"`
	BookingEnd   *string        `json:"bookingEnd,omitempty"`
	Items        []EquipmentDTO `json:"items"`
}

const wireDateFormat = "2006-01-02"

func newEquipmentDTO(p *models.Product) EquipmentDTO {
	return EquipmentDTO{
		ID:          p.LegacyID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Price:       decimal.NewFromInt(int64(p.PriceCents)).Div(decimal.NewFromInt(100)).StringFixed(2),
		StockQty:    p.StockQty,
		Purchasable: p.Purchasable,
		Categories:  append([]string(nil), p.Categories...),
	}
}

func formatWireDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(wireDateFormat)
	return &s
}
