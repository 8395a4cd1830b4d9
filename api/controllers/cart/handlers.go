package cart

import (
	"net/http"
	"strings"

	"github.com/collectionaura/rentalcart/api/middleware"
	"github.com/collectionaura/rentalcart/api/responses"
	"github.com/collectionaura/rentalcart/api/validators"
	cartsvc "github.com/collectionaura/rentalcart/internal/cart"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
	"github.com/collectionaura/rentalcart/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// UpdateQuantity syncs an absolute quantity for one product line.
func UpdateQuantity(svc cartsvc.Service, m *metrics.Metrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetQuantity(r.Context(), sessionID, payload.ProductID, *payload.Quantity)
		if err != nil {
			m.IncCartMutation("quantity", "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncCartMutation(record.Action.String(), "ok")
		responses.WriteSuccess(w, record)
	}
}

// Quantities returns the full quantity snapshot for page-load
// reconciliation.
func Quantities(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Quantities(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"quantities": record})
	}
}

// ClearCategory removes every line whose product carries the category slug.
func ClearCategory(svc cartsvc.Service, m *metrics.Metrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := strings.TrimSpace(chi.URLParam(r, "category"))
		record, err := svc.ClearCategory(r.Context(), sessionID, category)
		if err != nil {
			m.IncCartMutation("clear_category", "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncCartMutation("clear_category", "ok")
		responses.WriteSuccess(w, record)
	}
}

func sessionIDFromContext(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sessionID, nil
}
