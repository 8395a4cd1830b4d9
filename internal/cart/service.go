package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	"github.com/collectionaura/rentalcart/pkg/enums"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/shopspring/decimal"
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

// QuantityResult is what a quantity mutation reports back to the widget.
type QuantityResult struct {
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	Action    enums.CartAction `json:"action"`
	CartTotal string           `json:"cartTotal"`
	Message   string           `json:"message,omitempty"`
}

// ClearResult reports a category-wide removal.
type ClearResult struct {
	Removed   int    `json:"removed"`
	CartTotal string `json:"cartTotal"`
}

// Service owns quantity mutations and cart-wide reads for a session.
type Service interface {
	SetQuantity(ctx context.Context, sessionID string, productID, quantity int) (*QuantityResult, error)
	Quantities(ctx context.Context, sessionID string) (map[int]int, error)
	ClearCategory(ctx context.Context, sessionID, category string) (*ClearResult, error)
	FormattedTotal(ctx context.Context, sessionID string) (string, error)
}

type service struct {
	repo     cartRepo
	products productFinder
	cfg      config.WidgetConfig
}

// NewService wires the cart service to its repositories.
func NewService(repo cartRepo, products productFinder, cfg config.WidgetConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products, cfg: cfg}, nil
}

// SetQuantity reconciles the session's line for a product to the requested
// absolute quantity. Zero removes the line; a zero on a product the session
// never added is treated as already removed rather than an error.
func (s *service) SetQuantity(ctx context.Context, sessionID string, productID, quantity int) (*QuantityResult, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	product, err := s.products.FindByLegacyID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if quantity == 0 {
		if _, err := s.repo.Remove(ctx, sessionID, productID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return s.result(ctx, sessionID, productID, 0, enums.CartActionRemoved, "Product removed from cart")
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
	action := enums.CartActionUpdated
	message := "Cart updated"
	if line == nil {
		line = &models.CartLine{SessionID: sessionID, ProductID: productID}
		action = enums.CartActionAdded
		message = "Product added to cart"
	}
	line.Quantity = quantity
	if err := s.repo.Upsert(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}

	return s.result(ctx, sessionID, productID, quantity, action, message)
}

// Quantities returns the session's product quantities keyed by product id.
func (s *service) Quantities(ctx context.Context, sessionID string) (map[int]int, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	lines, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	out := make(map[int]int, len(lines))
	for i := range lines {
		out[lines[i].ProductID] = lines[i].Quantity
	}
	return out, nil
}

// ClearCategory removes every line whose product belongs to the category.
func (s *service) ClearCategory(ctx context.Context, sessionID, category string) (*ClearResult, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	lines, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	ids := make([]int, 0, len(lines))
	for i := range lines {
		ids = append(ids, lines[i].ProductID)
	}
	byID, err := s.products.FindByLegacyIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	removed := 0
	for i := range lines {
		product := byID[lines[i].ProductID]
		if product == nil || !product.HasCategory(category) {
			continue
		}
		gone, err := s.repo.Remove(ctx, sessionID, lines[i].ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		if gone {
			removed++
		}
	}

	total, err := s.FormattedTotal(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &ClearResult{Removed: removed, CartTotal: total}, nil
}

// FormattedTotal sums the session's lines and renders the amount with the
// configured currency marker.
func (s *service) FormattedTotal(ctx context.Context, sessionID string) (string, error) {
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
	return FormatAmount(cents, s.cfg), nil
}

// FormatAmount renders a cent amount with the currency marker in the
// configured position.
func FormatAmount(cents int, cfg config.WidgetConfig) string {
	amount := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100)).StringFixed(2)
	symbol := cfg.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}
	if cfg.CurrencyPosition == "suffix" {
		return amount + symbol
	}
	return symbol + amount
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (s *service) result(ctx context.Context, sessionID string, productID, quantity int, action enums.CartAction, message string) (*QuantityResult, error) {
	total, err := s.FormattedTotal(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &QuantityResult{
		ProductID: productID,
		Quantity:  quantity,
		Action:    action,
		CartTotal: total,
		Message:   message,
	}, nil
}
