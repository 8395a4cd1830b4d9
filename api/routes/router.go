package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	arrivalcontrollers "github.com/collectionaura/rentalcart/api/controllers/arrival"
	cartcontrollers "github.com/collectionaura/rentalcart/api/controllers/cart"
	catalogcontrollers "github.com/collectionaura/rentalcart/api/controllers/catalog"
	checkoutcontrollers "github.com/collectionaura/rentalcart/api/controllers/checkout"
	healthcontrollers "github.com/collectionaura/rentalcart/api/controllers/health"
	rentalcontrollers "github.com/collectionaura/rentalcart/api/controllers/rentals"
	sessioncontrollers "github.com/collectionaura/rentalcart/api/controllers/session"
	"github.com/collectionaura/rentalcart/api/middleware"
	arrivalsvc "github.com/collectionaura/rentalcart/internal/arrival"
	cartsvc "github.com/collectionaura/rentalcart/internal/cart"
	checkoutsvc "github.com/collectionaura/rentalcart/internal/checkout"
	productsvc "github.com/collectionaura/rentalcart/internal/products"
	rentalsvc "github.com/collectionaura/rentalcart/internal/rentals"
	"github.com/collectionaura/rentalcart/pkg/config"
	"github.com/collectionaura/rentalcart/pkg/db"
	"github.com/collectionaura/rentalcart/pkg/logger"
	"github.com/collectionaura/rentalcart/pkg/metrics"
	"github.com/collectionaura/rentalcart/pkg/redis"
)

type sessionManager interface {
	Start(ctx context.Context) (string, string, error)
	Validate(ctx context.Context, token string) (string, error)
	Touch(ctx context.Context, sessionID string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	m *metrics.Metrics,
	sessions sessionManager,
	catalogService productsvc.Service,
	cartService cartsvc.Service,
	rentalService rentalsvc.Service,
	arrivalService arrivalsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", healthcontrollers.Live(cfg))
		r.Get("/ready", healthcontrollers.Ready(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", sessioncontrollers.Start(sessions, cartService, cfg.Widget, logg))
		r.Get("/catalog/{villaId}", catalogcontrollers.ForVilla(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessions, logg))
			r.Use(middleware.RateLimit(middleware.DefaultMutationPolicy, redisClient, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Post("/quantity", cartcontrollers.UpdateQuantity(cartService, m, logg))
				r.Get("/quantities", cartcontrollers.Quantities(cartService, logg))
				r.Delete("/category/{category}", cartcontrollers.ClearCategory(cartService, m, logg))

				r.Route("/rentals", func(r chi.Router) {
					r.Post("/", rentalcontrollers.Add(rentalService, m, logg))
					r.Delete("/{productId}", rentalcontrollers.Remove(rentalService, m, logg))
					r.Patch("/{productId}/dates", rentalcontrollers.UpdateDates(rentalService, m, logg))
				})
			})

			r.Post("/arrival-note", arrivalcontrollers.Save(arrivalService, logg))
			r.Post("/checkout", checkoutcontrollers.Commit(checkoutService, m, logg))
		})
	})

	return r
}
