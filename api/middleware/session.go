package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/collectionaura/rentalcart/api/responses"
	"github.com/collectionaura/rentalcart/pkg/auth/session"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
)

// CartTokenHeader is the anti-forgery header the widget sends on every
// cart mutation.
const CartTokenHeader = "X-Cart-Token"

// Session validates the cart token, seeds the request context with the
// session id, and slides the session TTL on every authenticated request.
func Session(validator session.Validator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(CartTokenHeader))
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing cart token"))
				return
			}

			if validator == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session validator unavailable"))
				return
			}

			sessionID, err := validator.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrInvalidToken) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid cart token"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeSession, err, "validate cart token"))
				return
			}

			if err := validator.Touch(r.Context(), sessionID); err != nil && logg != nil {
				logg.Warn(logg.WithSessionID(r.Context(), sessionID), "failed to refresh session ttl")
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
