package rentals

import (
	"net/http"

	"github.com/collectionaura/rentalcart/api/middleware"
	"github.com/collectionaura/rentalcart/api/responses"
	"github.com/collectionaura/rentalcart/api/validators"
	rentalsvc "github.com/collectionaura/rentalcart/internal/rentals"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
	"github.com/collectionaura/rentalcart/pkg/metrics"
)

// Add creates or overwrites the rental line for a product.
func Add(svc rentalsvc.Service, m *metrics.Metrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addRentalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddRental(r.Context(), sessionID, payload.ProductID, payload.Quantity, payload.StartDate, payload.EndDate)
		if err != nil {
			m.IncCartMutation("add_rental", "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncCartMutation("add_rental", "ok")
		responses.WriteSuccess(w, record)
	}
}

// Remove drops the rental line for a product.
func Remove(svc rentalsvc.Service, m *metrics.Metrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLParamInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveRental(r.Context(), sessionID, productID)
		if err != nil {
			m.IncCartMutation("remove_rental", "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncCartMutation("remove_rental", "ok")
		responses.WriteSuccess(w, record)
	}
}

// UpdateDates moves the window of an existing rental line.
func UpdateDates(svc rentalsvc.Service, m *metrics.Metrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rental service unavailable"))
			return
		}

		sessionID, err := sessionIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLParamInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDatesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateDates(r.Context(), sessionID, productID, payload.StartDate, payload.EndDate)
		if err != nil {
			m.IncCartMutation("update_rental_dates", "error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncCartMutation("update_rental_dates", "ok")
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
