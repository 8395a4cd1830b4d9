package arrival

import (
	"net/http"

	"github.com/collectionaura/rentalcart/api/middleware"
	"github.com/collectionaura/rentalcart/api/responses"
	"github.com/collectionaura/rentalcart/api/validators"
	arrivalsvc "github.com/collectionaura/rentalcart/internal/arrival"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
)

type saveNoteRequest struct {
	Note      string `json:"note" validate:"max=1000"`
	Confirmed bool   `json:"confirmed"`
}

// Save stages the guest's arrival note for checkout.
func Save(svc arrivalsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "arrival note service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		var payload saveNoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Save(r.Context(), sessionID, arrivalsvc.Note{Text: payload.Note, Confirmed: payload.Confirmed})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
