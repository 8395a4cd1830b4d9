package cart

import (
	"context"
	"testing"

	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	"github.com/collectionaura/rentalcart/pkg/enums"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCartRepo struct {
	lines []*models.CartLine
}

func (m *memoryCartRepo) FindLine(ctx context.Context, sessionID string, productID int) (*models.CartLine, error) {
	for _, line := range m.lines {
		if line.SessionID == sessionID && line.ProductID == productID {
			return line, nil
		}
	}
	return nil, nil
}

func (m *memoryCartRepo) Upsert(ctx context.Context, line *models.CartLine) error {
	for i, existing := range m.lines {
		if existing.SessionID == line.SessionID && existing.ProductID == line.ProductID {
			m.lines[i] = line
			return nil
		}
	}
	m.lines = append(m.lines, line)
	return nil
}

func (m *memoryCartRepo) Remove(ctx context.Context, sessionID string, productID int) (bool, error) {
	for i, line := range m.lines {
		if line.SessionID == sessionID && line.ProductID == productID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryCartRepo) ListBySession(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	var out []models.CartLine
	for _, line := range m.lines {
		if line.SessionID == sessionID {
			out = append(out, *line)
		}
	}
	return out, nil
}

type memoryProducts struct {
	byID map[int]*models.Product
}

func (m *memoryProducts) FindByLegacyID(ctx context.Context, legacyID int) (*models.Product, error) {
	if p, ok := m.byID[legacyID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryProducts) FindByLegacyIDs(ctx context.Context, legacyIDs []int) (map[int]*models.Product, error) {
	out := make(map[int]*models.Product, len(legacyIDs))
	for _, id := range legacyIDs {
		if p, ok := m.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func newCartService(t *testing.T) (Service, *memoryCartRepo, *memoryProducts) {
	t.Helper()

	repo := &memoryCartRepo{}
	products := &memoryProducts{byID: map[int]*models.Product{
		10: {LegacyID: 10, Name: "Beach chair", PriceCents: 1000, Purchasable: true, Published: true, Categories: pq.StringArray{"equipment-rental"}},
		11: {LegacyID: 11, Name: "Cooler", PriceCents: 2500, Purchasable: true, Published: true, Categories: pq.StringArray{"equipment-rental"}},
		12: {LegacyID: 12, Name: "Sunscreen", PriceCents: 500, Purchasable: true, Published: true, Categories: pq.StringArray{"toiletries"}},
		13: {LegacyID: 13, Name: "Retired kayak", PriceCents: 9000, Purchasable: false, Published: true},
		14: {LegacyID: 14, Name: "Umbrella", PriceCents: 1200, Purchasable: true, Published: true, StockQty: intPtr(3)},
	}}

	svc, err := NewService(repo, products, config.WidgetConfig{CurrencySymbol: "$", CurrencyPosition: "prefix"})
	require.NoError(t, err)
	return svc, repo, products
}

func TestSetQuantityAddsThenUpdates(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	got, err := svc.SetQuantity(ctx, "sess-1", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, enums.CartActionAdded, got.Action)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, "$20.00", got.CartTotal)

	got, err = svc.SetQuantity(ctx, "sess-1", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, enums.CartActionUpdated, got.Action)
	assert.Equal(t, "$50.00", got.CartTotal)
}

func TestSetQuantityRepeatedValueIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newCartService(t)
	ctx := context.Background()

	first, err := svc.SetQuantity(ctx, "sess-1", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, enums.CartActionAdded, first.Action)

	second, err := svc.SetQuantity(ctx, "sess-1", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, enums.CartActionUpdated, second.Action)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, first.CartTotal, second.CartTotal)
	assert.Equal(t, "$50.00", second.CartTotal)

	require.Len(t, repo.lines, 1)
	assert.Equal(t, 5, repo.lines[0].Quantity)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, "sess-1", 10, 2)
	require.NoError(t, err)

	got, err := svc.SetQuantity(ctx, "sess-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, enums.CartActionRemoved, got.Action)
	assert.Equal(t, "Product removed from cart", got.Message)
	assert.Equal(t, "$0.00", got.CartTotal)
	assert.Empty(t, repo.lines)
}

func TestSetQuantityZeroOnAbsentLineIsBenign(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)

	got, err := svc.SetQuantity(context.Background(), "sess-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, enums.CartActionRemoved, got.Action)
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)

	_, err := svc.SetQuantity(context.Background(), "sess-1", 999, 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "Product not found", typed.Message())
}

func TestSetQuantityUnpurchasableProduct(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)

	_, err := svc.SetQuantity(context.Background(), "sess-1", 13, 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnavailable, typed.Code())
}

func TestSetQuantityInsufficientStock(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)

	_, err := svc.SetQuantity(context.Background(), "sess-1", 14, 5)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.Equal(t, "Not enough stock. Only 3 available.", typed.Message())
	assert.Equal(t, map[string]int{"available": 3}, typed.Details())
}

func TestSetQuantityAtStockBoundary(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)

	got, err := svc.SetQuantity(context.Background(), "sess-1", 14, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestQuantitiesReturnsSessionMap(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, "sess-1", 10, 2)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, "sess-1", 11, 1)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, "sess-2", 10, 7)
	require.NoError(t, err)

	got, err := svc.Quantities(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{10: 2, 11: 1}, got)
}

func TestClearCategoryRemovesOnlyMatchingLines(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, "sess-1", 10, 1)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, "sess-1", 11, 1)
	require.NoError(t, err)
	_, err = svc.SetQuantity(ctx, "sess-1", 12, 2)
	require.NoError(t, err)

	got, err := svc.ClearCategory(ctx, "sess-1", "equipment-rental")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Removed)
	assert.Equal(t, "$10.00", got.CartTotal)

	remaining, err := svc.Quantities(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{12: 2}, remaining)
}

func TestFormatAmountSuffixPosition(t *testing.T) {
	t.Parallel()

	got := FormatAmount(1550, config.WidgetConfig{CurrencySymbol: "kr", CurrencyPosition: "suffix"})
	assert.Equal(t, "15.50kr", got)

	got = FormatAmount(0, config.WidgetConfig{})
	assert.Equal(t, "$0.00", got)
}
