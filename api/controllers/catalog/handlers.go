package catalog

import (
	"net/http"
	"strings"

	"github.com/collectionaura/rentalcart/api/responses"
	"github.com/collectionaura/rentalcart/api/validators"
	productsvc "github.com/collectionaura/rentalcart/internal/products"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
	"github.com/collectionaura/rentalcart/pkg/logger"
)

// ForVilla lists the equipment catalog attached to a villa.
func ForVilla(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		villaID, err := validators.ParseURLParamInt(r, "villaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		record, err := svc.Catalog(r.Context(), villaID, category, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}
