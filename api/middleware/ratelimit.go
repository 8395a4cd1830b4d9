package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/collectionaura/rentalcart/api/responses"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
)

type fixedWindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// MutationRateLimitPolicy bounds how fast a single session may mutate its
// cart. Generous enough for a human tapping plus/minus, tight enough to
// stop scripted hammering.
type MutationRateLimitPolicy struct {
	Limit  int64
	Window time.Duration
}

// DefaultMutationPolicy allows 60 mutations per minute per session.
var DefaultMutationPolicy = MutationRateLimitPolicy{Limit: 60, Window: time.Minute}

// RateLimit applies a per-session fixed window on mutating endpoints. The
// limiter failing open is intentional: a redis blip must not take the cart
// down with it.
func RateLimit(policy MutationRateLimitPolicy, limiter fixedWindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || policy.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := SessionIDFromContext(r.Context())
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := limiter.FixedWindowAllow(r.Context(), "mutation:"+sessionID, policy.Limit, policy.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate limit store unavailable, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "Too many cart updates. Please slow down.").
						WithDetails(map[string]int64{"count": count}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
