package cart

import (
	"context"
	"errors"

	"github.com/collectionaura/rentalcart/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists cart lines keyed by (session, product).
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindLine loads the session's line for a product, or nil when absent.
func (r *Repository) FindLine(ctx context.Context, sessionID string, productID int) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// Upsert writes the line, replacing quantity and rental window when the
// (session, product) pair already exists.
func (r *Repository) Upsert(ctx context.Context, line *models.CartLine) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "rental_start", "rental_end", "updated_at",
			}),
		}).
		Create(line).Error
}

// Remove deletes the session's line for a product and reports whether a row
// was actually removed.
func (r *Repository) Remove(ctx context.Context, sessionID string, productID int) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListBySession returns every line a session holds, oldest first.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearSession drops every line the session holds. Checkout uses it inside
// the order transaction.
func (r *Repository) ClearSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartLine{}).Error
}
