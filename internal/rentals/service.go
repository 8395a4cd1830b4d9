package rentals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/collectionaura/rentalcart/internal/cart"
	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"gorm.io/gorm"
)

type cartRepo interface {
	FindLine(ctx context.Context, sessionID string, productID int) (*models.CartLine, error)
	Upsert(ctx context.Context, line *models.CartLine) error
	Remove(ctx context.Context, sessionID string, productID int) (bool, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.CartLine, error)
}

type productFinder interface {
	FindByLegacyID(ctx context.Context, legacyID int) (*models.Product, error)
	FindByLegacyIDs(ctx context.Context, legacyIDs []int) (map[int]*models.Product, error)
}

// RentalResult reports a rental line mutation back to the widget, including
// the per-line total that the date window multiplies into.
type RentalResult struct {
	ProductID  int    `json:"productId"`
	Quantity   int    `json:"quantity"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	RentalDays int    `json:"rentalDays,omitempty"`
	LineTotal  string `json:"lineTotal,omitempty"`
	CartTotal  string `json:"cartTotal"`
}

// Service owns the rental lines of a cart: dated windows whose day count
// multiplies into the line total.
type Service interface {
	AddRental(ctx context.Context, sessionID string, productID, quantity int, startDate, endDate string) (*RentalResult, error)
	RemoveRental(ctx context.Context, sessionID string, productID int) (*RentalResult, error)
	UpdateDates(ctx context.Context, sessionID string, productID int, startDate, endDate string) (*RentalResult, error)
}

type service struct {
	repo     cartRepo
	products productFinder
	cfg      config.WidgetConfig
}

// NewService wires the rental service to its repositories.
func NewService(repo cartRepo, products productFinder, cfg config.WidgetConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products, cfg: cfg}, nil
}

// AddRental writes the session's rental line for a product, replacing any
// previous quantity and window for the same product.
func (s *service) AddRental(ctx context.Context, sessionID string, productID, quantity int, startDate, endDate string) (*RentalResult, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Purchasable || !product.Published {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "Product is not available for purchase")
	}
	if product.ManagesStock() && quantity > *product.StockQty {
		return nil, pkgerrors.New(
			pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("Not enough stock. Only %d available.", *product.StockQty),
		).WithDetails(map[string]int{"available": *product.StockQty})
	}

	existing, err := s.repo.FindLine(ctx, sessionID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	line := existing
	if line == nil {
		line = &models.CartLine{SessionID: sessionID, ProductID: productID}
	}
	line.Quantity = quantity
	line.RentalStart = &start
	line.RentalEnd = &end
	if err := s.repo.Upsert(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rental line")
	}

	return s.result(ctx, sessionID, line, product)
}

// RemoveRental drops the session's rental line for a product. Removing a
// product the session never rented is a no-op, not an error.
func (s *service) RemoveRental(ctx context.Context, sessionID string, productID int) (*RentalResult, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.Remove(ctx, sessionID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove rental line")
	}

	total, err := s.cartTotal(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &RentalResult{ProductID: productID, CartTotal: total}, nil
}

// UpdateDates moves an existing rental line to a new window. The new day
// count takes effect on the line total immediately.
func (s *service) UpdateDates(ctx context.Context, sessionID string, productID int, startDate, endDate string) (*RentalResult, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	line, err := s.repo.FindLine(ctx, sessionID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No rental found for this product")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	line.RentalStart = &start
	line.RentalEnd = &end
	if err := s.repo.Upsert(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rental line")
	}

	return s.result(ctx, sessionID, line, product)
}

func (s *service) loadProduct(ctx context.Context, productID int) (*models.Product, error) {
	product, err := s.products.FindByLegacyID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) result(ctx context.Context, sessionID string, line *models.CartLine, product *models.Product) (*RentalResult, error) {
	total, err := s.cartTotal(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	days := line.RentalDays()
	return &RentalResult{
		ProductID:  line.ProductID,
		Quantity:   line.Quantity,
		StartDate:  line.RentalStart.Format(wireDateFormat),
		EndDate:    line.RentalEnd.Format(wireDateFormat),
		RentalDays: days,
		LineTotal:  cart.FormatAmount(line.Quantity*product.PriceCents*days, s.cfg),
		CartTotal:  total,
	}, nil
}

func (s *service) cartTotal(ctx context.Context, sessionID string) (string, error) {
	lines, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	ids := make([]int, 0, len(lines))
	for i := range lines {
		ids = append(ids, lines[i].ProductID)
	}
	byID, err := s.products.FindByLegacyIDs(ctx, ids)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	cents := 0
	for i := range lines {
		product := byID[lines[i].ProductID]
		if product == nil {
			continue
		}
		cents += lines[i].Quantity * product.PriceCents * lines[i].RentalDays()
	}
	return cart.FormatAmount(cents, s.cfg), nil
}

func parseWindow(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	start, err := ParseWireDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start date must be YYYY-MM-DD")
	}
	end, err := ParseWireDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date cannot be before start date")
	}
	return start, end, nil
}
