package checkout

import (
	"context"
	"fmt"

	"github.com/collectionaura/rentalcart/internal/arrival"
	"github.com/collectionaura/rentalcart/internal/cart"
	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	"github.com/collectionaura/rentalcart/pkg/enums"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.CartLine, error)
	WithTx(tx *gorm.DB) *cart.Repository
}

type productFinder interface {
	FindByLegacyIDs(ctx context.Context, legacyIDs []int) (map[int]*models.Product, error)
}

type noteReader interface {
	Load(ctx context.Context, sessionID string) (*arrival.Note, error)
	Clear(ctx context.Context, sessionID string) error
}

// Result reports the created order back to the widget.
type Result struct {
	OrderID     uuid.UUID `json:"orderId"`
	Status      string    `json:"status"`
	ItemCount   int       `json:"itemCount"`
	TotalCents  int       `json:"totalCents"`
	Total       string    `json:"total"`
	ArrivalNote *string   `json:"arrivalNote,omitempty"`
}

// Service snapshots the session's cart into an order and empties the cart.
type Service interface {
	Checkout(ctx context.Context, sessionID string) (*Result, error)
}

type service struct {
	tx       txRunner
	orders   *Repository
	lines    cartStore
	products productFinder
	notes    noteReader
	cfg      config.WidgetConfig
	logg     *logger.Logger
}

// NewService wires checkout to the order and cart repositories.
func NewService(tx txRunner, orders *Repository, lines cartStore, products productFinder, notes noteReader, cfg config.WidgetConfig, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if lines == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if notes == nil {
		return nil, fmt.Errorf("arrival note service required")
	}
	return &service{tx: tx, orders: orders, lines: lines, products: products, notes: notes, cfg: cfg, logg: logg}, nil
}

// Checkout freezes the cart into an order. Order creation and cart clearing
// commit atomically; the staged arrival note rides along only when the guest
// confirmed it.
func (s *service) Checkout(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lines, err := s.lines.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Your cart is empty")
	}

	ids := make([]int, 0, len(lines))
	for i := range lines {
		ids = append(ids, lines[i].ProductID)
	}
	byID, err := s.products.FindByLegacyIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	note, err := s.notes.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		SessionID: sessionID,
		Status:    enums.OrderStatusPending,
	}
	for i := range lines {
		product := byID[lines[i].ProductID]
		if product == nil {
			continue
		}
		days := lines[i].RentalDays()
		total := lines[i].Quantity * product.PriceCents * days
		order.Lines = append(order.Lines, models.OrderLine{
			ProductID:      lines[i].ProductID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       lines[i].Quantity,
			RentalStart:    lines[i].RentalStart,
			RentalEnd:      lines[i].RentalEnd,
			RentalDays:     days,
			TotalCents:     total,
		})
		order.SubtotalCents += total
	}
	if len(order.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Your cart is empty")
	}
	order.TotalCents = order.SubtotalCents
	if note.Confirmed && note.Text != "" {
		text := note.Text
		order.ArrivalNote = &text
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := s.lines.WithTx(tx).ClearSession(ctx, sessionID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit checkout")
	}

	// The order is committed at this point, so a failed note cleanup only
	// leaves a stale key behind.
	if err := s.notes.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "failed to clear arrival note after checkout")
	}

	return &Result{
		OrderID:     order.ID,
		Status:      order.Status.String(),
		ItemCount:   len(order.Lines),
		TotalCents:  order.TotalCents,
		Total:       cart.FormatAmount(order.TotalCents, s.cfg),
		ArrivalNote: order.ArrivalNote,
	}, nil
}
