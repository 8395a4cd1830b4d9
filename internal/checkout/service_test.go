package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/collectionaura/rentalcart/internal/arrival"
	"github.com/collectionaura/rentalcart/internal/cart"
	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db/models"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type fakeProducts struct {
	byID map[int]*models.Product
}

func (f *fakeProducts) FindByLegacyIDs(ctx context.Context, legacyIDs []int) (map[int]*models.Product, error) {
	out := make(map[int]*models.Product, len(legacyIDs))
	for _, id := range legacyIDs {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeNotes struct {
	note     arrival.Note
	cleared  bool
	clearErr error
}

func (f *fakeNotes) Load(ctx context.Context, sessionID string) (*arrival.Note, error) {
	note := f.note
	return &note, nil
}

func (f *fakeNotes) Clear(ctx context.Context, sessionID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = true
	return nil
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`DROP TABLE IF EXISTS order_lines`,
		`DROP TABLE IF EXISTS orders`,
		`DROP TABLE IF EXISTS cart_lines`,
		`CREATE TABLE cart_lines (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  rental_start DATETIME,
  rental_end DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE(session_id, product_id)
);`,
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  arrival_note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  rental_start DATETIME,
  rental_end DATETIME,
  rental_days INTEGER NOT NULL DEFAULT 1,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCheckoutService(t *testing.T, db *gorm.DB, notes *fakeNotes) (Service, *cart.Repository) {
	t.Helper()

	cartRepo := cart.NewRepository(db)
	products := &fakeProducts{byID: map[int]*models.Product{
		10: {LegacyID: 10, Name: "Beach chair", PriceCents: 1000, Purchasable: true, Published: true},
		20: {LegacyID: 20, Name: "Kayak", PriceCents: 3000, Purchasable: true, Published: true},
	}}

	svc, err := NewService(
		gormTxRunner{db: db},
		NewRepository(db),
		cartRepo,
		products,
		notes,
		config.WidgetConfig{CurrencySymbol: "$", CurrencyPosition: "prefix"},
		nil,
	)
	require.NoError(t, err)
	return svc, cartRepo
}

func TestCheckoutSnapshotsCartAndClearsIt(t *testing.T) {
	db := setupCheckoutTestDB(t)
	notes := &fakeNotes{note: arrival.Note{Text: "We land at 3pm", Confirmed: true}}
	svc, cartRepo := newCheckoutService(t, db, notes)
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, cartRepo.Upsert(ctx, &models.CartLine{SessionID: "sess-1", ProductID: 10, Quantity: 2}))
	require.NoError(t, cartRepo.Upsert(ctx, &models.CartLine{
		SessionID: "sess-1", ProductID: 20, Quantity: 1, RentalStart: &start, RentalEnd: &end,
	}))

	got, err := svc.Checkout(ctx, "sess-1")
	require.NoError(t, err)

	// 2 * $10 plus 1 * $30 * 5 days.
	assert.Equal(t, 2000+15000, got.TotalCents)
	assert.Equal(t, "$170.00", got.Total)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, 2, got.ItemCount)
	require.NotNil(t, got.ArrivalNote)
	assert.Equal(t, "We land at 3pm", *got.ArrivalNote)
	assert.True(t, notes.cleared)

	remaining, err := cartRepo.ListBySession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	stored, err := NewRepository(db).FindByID(ctx, got.OrderID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	for _, line := range stored.Lines {
		if line.ProductID == 20 {
			assert.Equal(t, 5, line.RentalDays)
			assert.Equal(t, 15000, line.TotalCents)
		}
	}
}

func TestCheckoutSkipsUnconfirmedNote(t *testing.T) {
	db := setupCheckoutTestDB(t)
	notes := &fakeNotes{note: arrival.Note{Text: "maybe later", Confirmed: false}}
	svc, cartRepo := newCheckoutService(t, db, notes)
	ctx := context.Background()

	require.NoError(t, cartRepo.Upsert(ctx, &models.CartLine{SessionID: "sess-1", ProductID: 10, Quantity: 1}))

	got, err := svc.Checkout(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got.ArrivalNote)
	assert.True(t, notes.cleared)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc, _ := newCheckoutService(t, db, &fakeNotes{})

	_, err := svc.Checkout(context.Background(), "sess-1")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Your cart is empty", typed.Message())
}

func TestCheckoutSurvivesNoteClearFailure(t *testing.T) {
	db := setupCheckoutTestDB(t)
	notes := &fakeNotes{clearErr: assert.AnError}
	svc, cartRepo := newCheckoutService(t, db, notes)
	ctx := context.Background()

	require.NoError(t, cartRepo.Upsert(ctx, &models.CartLine{SessionID: "sess-1", ProductID: 10, Quantity: 1}))

	got, err := svc.Checkout(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1000, got.TotalCents)
}
