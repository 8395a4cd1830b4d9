package arrival

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collectionaura/rentalcart/pkg/config"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
)

// MaxNoteLength bounds the free-text note guests type into the widget.
const MaxNoteLength = 1000

type noteStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type noteKeyer interface {
	ArrivalNoteKey(sessionID string) string
}

// Note is the guest's arrival message plus the confirmation flag the widget
// toggles. Only confirmed notes make it onto the order at checkout.
type Note struct {
	Text      string `json:"text"`
	Confirmed bool   `json:"confirmed"`
}

// Service stages arrival notes in the session store until checkout picks
// them up.
type Service interface {
	Save(ctx context.Context, sessionID string, note Note) (*Note, error)
	Load(ctx context.Context, sessionID string) (*Note, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store noteStore
	keyer noteKeyer
	ttl   time.Duration
}

type storeAndKeyer interface {
	noteStore
	noteKeyer
}

// NewService wires the arrival note service to the session store. The note
// shares the cart session's lifetime.
func NewService(store storeAndKeyer, cfg config.SessionConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("note store required")
	}
	return &service{store: store, keyer: store, ttl: cfg.TTL()}, nil
}

// Save overwrites the session's staged note.
func (s *service) Save(ctx context.Context, sessionID string, note Note) (*Note, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	note.Text = strings.TrimSpace(note.Text)
	if len(note.Text) > MaxNoteLength {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("note cannot exceed %d characters", MaxNoteLength),
		)
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode arrival note")
	}
	if err := s.store.Set(ctx, s.keyer.ArrivalNoteKey(sessionID), payload, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSession, err, "store arrival note")
	}
	return &note, nil
}

// Load returns the session's staged note, or an empty unconfirmed note when
// nothing was saved yet.
func (s *service) Load(ctx context.Context, sessionID string) (*Note, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.store.Get(ctx, s.keyer.ArrivalNoteKey(sessionID))
	if errors.Is(err, redislib.Nil) {
		return &Note{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSession, err, "load arrival note")
	}

	var note Note
	if err := json.Unmarshal([]byte(raw), &note); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode arrival note")
	}
	return &note, nil
}

// Clear drops the session's staged note. Clearing an absent note is fine.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.store.Del(ctx, s.keyer.ArrivalNoteKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSession, err, "clear arrival note")
	}
	return nil
}
