package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/runwaylab/outcomes-lab-backend/api/controllers"
	analyticscontrollers "github.com/runwaylab/outcomes-lab-backend/api/controllers/analytics"
	mlcontrollers "github.com/runwaylab/outcomes-lab-backend/api/controllers/ml"
	"github.com/runwaylab/outcomes-lab-backend/api/middleware"
	"github.com/runwaylab/outcomes-lab-backend/api/responses"
	"github.com/runwaylab/outcomes-lab-backend/internal/analytics"
	"github.com/runwaylab/outcomes-lab-backend/internal/risk"
	"github.com/runwaylab/outcomes-lab-backend/pkg/config"
	pkgerrors "github.com/runwaylab/outcomes-lab-backend/pkg/errors"
	"github.com/runwaylab/outcomes-lab-backend/pkg/logger"
	"github.com/runwaylab/outcomes-lab-backend/pkg/metrics"
)

type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	DB     controllers.Pinger
	// Redis is nil when the report cache is disabled.
	Redis     controllers.Pinger
	Analytics analytics.Service
	Scorer    risk.Scorer
	// Registry backs /metrics; nil disables both the endpoint and HTTP metrics.
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	scorer := deps.Scorer
	if scorer == nil {
		scorer = risk.NewHeuristic()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(deps.Config.CORS),
	)
	if deps.Registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(deps.Registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeMethod, "method not allowed"))
	})

	r.Get("/", controllers.Root())
	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps.DB, deps.Redis))
	})

	r.Route("/analytics", func(r chi.Router) {
		svc := deps.Analytics
		r.Get("/summary", analyticscontrollers.Summary(svc, logg))
		r.Get("/returns-by-category", analyticscontrollers.ReturnsByCategory(svc, logg))
		r.Get("/revenue-by-department", analyticscontrollers.RevenueByDepartment(svc, logg))
		r.Get("/revenue-by-brand", analyticscontrollers.RevenueByBrand(svc, logg))
		r.Get("/revenue-over-time", analyticscontrollers.RevenueOverTime(svc, logg))
		r.Get("/returns-by-department", analyticscontrollers.ReturnsByDepartment(svc, logg))
		r.Get("/age-distribution", analyticscontrollers.AgeDistribution(svc, logg))
		r.Get("/revenue-by-country", analyticscontrollers.RevenueByCountry(svc, logg))
		r.Get("/export", analyticscontrollers.Export(svc, logg))
	})

	r.Route("/ml", func(r chi.Router) {
		r.Post("/predict_returns", mlcontrollers.PredictReturns(scorer, logg))
	})

	return r
}
