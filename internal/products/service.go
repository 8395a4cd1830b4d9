package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"gorm.io/gorm"
)

type catalogRepo interface {
	FindVillaByLegacyID(ctx context.Context, legacyID int) (*models.Villa, error)
	ListForVilla(ctx context.Context, villaID int, category string, limit int) ([]models.Product, error)
}

// Service exposes the villa equipment catalog.
type Service interface {
	Catalog(ctx context.Context, villaID int, category string, limit int) (*CatalogDTO, error)
}

type service struct {
	repo catalogRepo
	cfg  config.CatalogConfig
}

// NewService builds a catalog service backed by the product repository.
func NewService(repo catalogRepo, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Catalog loads the villa's equipment list in menu order.
func (s *service) Catalog(ctx context.Context, villaID int, category string, limit int) (*CatalogDTO, error) {
	if villaID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "villa id is required")
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	villa, err := s.repo.FindVillaByLegacyID(ctx, villaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Villa not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load villa")
	}

	rows, err := s.repo.ListForVilla(ctx, villaID, category, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list villa equipment")
	}

	items := make([]EquipmentDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newEquipmentDTO(&rows[i]))
	}

	return &CatalogDTO{
		VillaID:      villa.LegacyID,
		BookingStart: formatWireDate(villa.BookingStart),
		BookingEnd:   formatWireDate(villa.BookingEnd),
		Items:        items,
	}, nil
}
