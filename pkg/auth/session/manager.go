package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/collectionaura/rentalcart/pkg/config"
	redisclient "github.com/collectionaura/rentalcart/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

var ErrInvalidToken = errors.New("invalid cart token")

type sessionStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager creates cart sessions and validates the anti-forgery token clients
// echo back on every mutation.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	cfg   config.SessionConfig
	now   func() time.Time
}

// Validator exposes the read-only surface needed by middleware.
type Validator interface {
	Validate(ctx context.Context, token string) (string, error)
	Touch(ctx context.Context, sessionID string) error
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL() <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		cfg:   cfg,
		now:   time.Now,
	}, nil
}

// Start creates a fresh session and returns its ID plus the signed token.
func (m *Manager) Start(ctx context.Context) (string, string, error) {
	sessionID := uuid.NewString()
	token, err := MintCartToken(m.cfg, m.now(), sessionID)
	if err != nil {
		return "", "", err
	}
	ok, err := m.store.SetNX(ctx, m.keyer.SessionKey(sessionID), token, m.cfg.TTL())
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", fmt.Errorf("session id already in use")
	}
	return sessionID, token, nil
}

// Validate checks the token signature, the session binding, and that the
// session is still live in the store. It returns the session ID on success.
func (m *Manager) Validate(ctx context.Context, provided string) (string, error) {
	if strings.TrimSpace(provided) == "" {
		return "", ErrInvalidToken
	}

	claims, err := ParseCartToken(m.cfg, provided)
	if err != nil {
		return "", ErrInvalidToken
	}

	stored, err := m.store.Get(ctx, m.keyer.SessionKey(claims.SessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return "", ErrInvalidToken
	}

	return claims.SessionID, nil
}

// Touch refreshes the session TTL so active carts outlive idle ones.
func (m *Manager) Touch(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	_, err := m.store.Expire(ctx, m.keyer.SessionKey(sessionID), m.cfg.TTL())
	return err
}

// Revoke deletes the session marker, invalidating its token.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}
