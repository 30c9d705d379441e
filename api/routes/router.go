package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renomatch/renomatch-backend/api/controllers"
	"github.com/renomatch/renomatch-backend/api/middleware"
	"github.com/renomatch/renomatch-backend/internal/contractors"
	"github.com/renomatch/renomatch-backend/internal/credits"
	"github.com/renomatch/renomatch-backend/internal/leads"
	"github.com/renomatch/renomatch-backend/pkg/config"
	"github.com/renomatch/renomatch-backend/pkg/db"
	"github.com/renomatch/renomatch-backend/pkg/logger"
	"github.com/renomatch/renomatch-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	creditsService credits.Service,
	contractorsService contractors.Service,
	leadsService leads.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	submitPolicy := middleware.NewRateLimitPolicy(
		"submit",
		cfg.RateLimit.SubmitWindow,
		cfg.RateLimit.SubmitIPLimit,
	)
	creditPolicy := middleware.NewRateLimitPolicy(
		"credit",
		cfg.RateLimit.CreditWindow,
		cfg.RateLimit.CreditIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Route("/credits", func(r chi.Router) {
			r.Get("/status", controllers.CreditStatus(creditsService, logg))
			r.With(middleware.RateLimit(creditPolicy, redisClient, logg)).
				Post("/use", controllers.CreditUse(creditsService, logg))
		})

		r.Route("/contractors", func(r chi.Router) {
			r.Get("/", controllers.ListContractors(contractorsService, logg))
			r.Post("/match", controllers.MatchContractors(contractorsService, logg))
			r.Get("/{contractorId}", controllers.GetContractor(contractorsService, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.With(
				middleware.RateLimit(submitPolicy, redisClient, logg),
				middleware.Idempotency(redisClient, cfg.Idempotency.SubmitTTL, logg),
			).Post("/submit", controllers.SubmitLead(leadsService, logg))
			r.Get("/{leadId}", controllers.GetLead(leadsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.AdminListLeads(leadsService, logg))
			r.Patch("/{leadId}/status", controllers.AdminUpdateLeadStatus(leadsService, logg))
		})
	})

	return r
}
