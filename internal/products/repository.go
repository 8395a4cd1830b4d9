package products

import (
	"context"

	"github.com/collectionaura/rentalcart/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes read access to the equipment catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByLegacyID loads a product by the numeric id clients use on the wire.
func (r *Repository) FindByLegacyID(ctx context.Context, legacyID int) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("legacy_id = ?", legacyID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByLegacyIDs loads the products for the provided legacy ids keyed by id.
func (r *Repository) FindByLegacyIDs(ctx context.Context, legacyIDs []int) (map[int]*models.Product, error) {
	out := make(map[int]*models.Product, len(legacyIDs))
	if len(legacyIDs) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("legacy_id IN ?", legacyIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].LegacyID] = &rows[i]
	}
	return out, nil
}

// FindVillaByLegacyID loads a villa by its wire id.
func (r *Repository) FindVillaByLegacyID(ctx context.Context, legacyID int) (*models.Villa, error) {
	var villa models.Villa
	err := r.db.WithContext(ctx).
		Where("legacy_id = ?", legacyID).
		First(&villa).Error
	if err != nil {
		return nil, err
	}
	return &villa, nil
}

// ListForVilla returns the published equipment related to a villa in menu
// order. Category filtering happens in Go so the query stays portable across
// the postgres and sqlite drivers.
func (r *Repository) ListForVilla(ctx context.Context, villaID int, category string, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN villa_products ON villa_products.product_id = products.id").
		Joins("JOIN villas ON villas.id = villa_products.villa_id").
		Where("villas.legacy_id = ?", villaID).
		Where("products.published = ?", true).
		Order("products.menu_order ASC, products.legacy_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	filtered := rows[:0]
	for i := range rows {
		if category != "" && !rows[i].HasCategory(category) {
			continue
		}
		filtered = append(filtered, rows[i])
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
