package session

import (
	"context"
	"net/http"

	"github.com/collectionaura/rentalcart/api/responses"
	cartsvc "github.com/collectionaura/rentalcart/internal/cart"
	"github.com/collectionaura/rentalcart/pkg/config"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
)

type starter interface {
	Start(ctx context.Context) (string, string, error)
}

type bootstrapResponse struct {
	SessionID  string           `json:"sessionId"`
	Token      string           `json:"token"`
	Quantities map[int]int      `json:"quantities"`
	Currency   currencySettings `json:"currency"`
}

type currencySettings struct {
	Symbol   string `json:"symbol"`
	Position string `json:"position"`
}

// Start mints a cart session and returns the rendering settings the widget
// needs on page load.
func Start(manager starter, carts cartsvc.Service, cfg config.WidgetConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		sessionID, token, err := manager.Start(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeSession, err, "start session"))
			return
		}

		quantities := map[int]int{}
		if carts != nil {
			if qs, err := carts.Quantities(r.Context(), sessionID); err == nil {
				quantities = qs
			}
		}

		responses.WriteSuccess(w, bootstrapResponse{
			SessionID:  sessionID,
			Token:      token,
			Quantities: quantities,
			Currency:   currencySettings{Symbol: cfg.CurrencySymbol, Position: cfg.CurrencyPosition},
		})
	}
}
