package checkout

import (
	"net/http"

	"github.com/collectionaura/rentalcart/api/middleware"
	"github.com/collectionaura/rentalcart/api/responses"
	checkoutsvc "github.com/collectionaura/rentalcart/internal/checkout"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
	"github.com/collectionaura/rentalcart/pkg/metrics"
)

// Commit snapshots the session's cart into an order.
func Commit(svc checkoutsvc.Service, m *metrics.Metrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		record, err := svc.Checkout(r.Context(), sessionID)
		if err != nil {
			m.IncCheckout("error")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncCheckout("ok")
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}
