package rentals

import (
	"context"
	"testing"
	"time"

	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
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

func newRentalService(t *testing.T) (Service, *memoryCartRepo) {
	t.Helper()

	stock := 2
	repo := &memoryCartRepo{}
	products := &memoryProducts{byID: map[int]*models.Product{
		20: {LegacyID: 20, Name: "Kayak", PriceCents: 3000, Purchasable: true, Published: true},
		21: {LegacyID: 21, Name: "Paddleboard", PriceCents: 4000, Purchasable: true, Published: true, StockQty: &stock},
	}}

	svc, err := NewService(repo, products, config.WidgetConfig{CurrencySymbol: "$", CurrencyPosition: "prefix"})
	require.NoError(t, err)
	return svc, repo
}

func TestDaysIsInclusive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start, end string
		want       int
	}{
		{"2025-06-01", "2025-06-05", 5},
		{"2025-06-01", "2025-06-01", 1},
		{"2025-06-30", "2025-07-01", 2},
		{"2025-12-31", "2026-01-01", 2},
	}
	for _, tc := range cases {
		start, err := ParseWireDate(tc.start)
		require.NoError(t, err)
		end, err := ParseWireDate(tc.end)
		require.NoError(t, err)
		assert.Equal(t, tc.want, Days(start, end), "%s..%s", tc.start, tc.end)
	}
}

func TestAddRentalMultipliesDaysIntoTotals(t *testing.T) {
	t.Parallel()
	svc, _ := newRentalService(t)

	got, err := svc.AddRental(context.Background(), "sess-1", 20, 2, "2025-06-01", "2025-06-05")
	require.NoError(t, err)
	assert.Equal(t, 5, got.RentalDays)
	assert.Equal(t, "$300.00", got.LineTotal)
	assert.Equal(t, "$300.00", got.CartTotal)
	assert.Equal(t, "2025-06-01", got.StartDate)
	assert.Equal(t, "2025-06-05", got.EndDate)
}

func TestAddRentalReplacesExistingLine(t *testing.T) {
	t.Parallel()
	svc, repo := newRentalService(t)
	ctx := context.Background()

	_, err := svc.AddRental(ctx, "sess-1", 20, 1, "2025-06-01", "2025-06-03")
	require.NoError(t, err)
	got, err := svc.AddRental(ctx, "sess-1", 20, 3, "2025-06-02", "2025-06-02")
	require.NoError(t, err)

	assert.Len(t, repo.lines, 1)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 1, got.RentalDays)
	assert.Equal(t, "$90.00", got.LineTotal)
}

func TestAddRentalRejectsInvertedWindow(t *testing.T) {
	t.Parallel()
	svc, _ := newRentalService(t)

	_, err := svc.AddRental(context.Background(), "sess-1", 20, 1, "2025-06-05", "2025-06-01")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAddRentalStockLimit(t *testing.T) {
	t.Parallel()
	svc, _ := newRentalService(t)

	_, err := svc.AddRental(context.Background(), "sess-1", 21, 3, "2025-06-01", "2025-06-02")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.Equal(t, "Not enough stock. Only 2 available.", typed.Message())
}

func TestUpdateDatesRecomputesTotals(t *testing.T) {
	t.Parallel()
	svc, repo := newRentalService(t)
	ctx := context.Background()

	_, err := svc.AddRental(ctx, "sess-1", 20, 1, "2025-06-01", "2025-06-02")
	require.NoError(t, err)

	got, err := svc.UpdateDates(ctx, "sess-1", 20, "2025-06-01", "2025-06-07")
	require.NoError(t, err)
	assert.Equal(t, 7, got.RentalDays)
	assert.Equal(t, "$210.00", got.LineTotal)

	line := repo.lines[0]
	require.NotNil(t, line.RentalEnd)
	assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), *line.RentalEnd)
}

func TestUpdateDatesMissingLine(t *testing.T) {
	t.Parallel()
	svc, _ := newRentalService(t)

	_, err := svc.UpdateDates(context.Background(), "sess-1", 20, "2025-06-01", "2025-06-02")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "No rental found for this product", typed.Message())
}

func TestRemoveRentalIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _ := newRentalService(t)
	ctx := context.Background()

	_, err := svc.AddRental(ctx, "sess-1", 20, 1, "2025-06-01", "2025-06-02")
	require.NoError(t, err)

	got, err := svc.RemoveRental(ctx, "sess-1", 20)
	require.NoError(t, err)
	assert.Equal(t, "$0.00", got.CartTotal)

	_, err = svc.RemoveRental(ctx, "sess-1", 20)
	require.NoError(t, err)
}
