package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/adjourney-backend/api/controllers"
	"github.com/angelmondragon/adjourney-backend/api/middleware"
	"github.com/angelmondragon/adjourney-backend/internal/attribution"
	"github.com/angelmondragon/adjourney-backend/internal/journeys"
	"github.com/angelmondragon/adjourney-backend/pkg/config"
	"github.com/angelmondragon/adjourney-backend/pkg/db"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
	"github.com/angelmondragon/adjourney-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	metricsGatherer prometheus.Gatherer,
	journeyService journeys.Service,
	attributionService attribution.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/visitors/{visitorID}/journey", controllers.VisitorJourney(journeyService, logg))
		r.Route("/attribution", func(r chi.Router) {
			r.Post("/orders", controllers.AttributeOrders(attributionService, logg))
			r.Get("/creatives", controllers.CreativeSummaries(attributionService, logg))
		})
	})

	return r
}
