package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hsalves/clinistock-backend/api/controllers"
	"github.com/hsalves/clinistock-backend/api/middleware"
	"github.com/hsalves/clinistock-backend/internal/auth"
	"github.com/hsalves/clinistock-backend/internal/clinics"
	"github.com/hsalves/clinistock-backend/internal/materials"
	"github.com/hsalves/clinistock-backend/internal/movements"
	"github.com/hsalves/clinistock-backend/internal/reports"
	"github.com/hsalves/clinistock-backend/internal/stock"
	"github.com/hsalves/clinistock-backend/internal/users"
	"github.com/hsalves/clinistock-backend/pkg/auth/session"
	"github.com/hsalves/clinistock-backend/pkg/config"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	"github.com/hsalves/clinistock-backend/pkg/logger"
	"github.com/hsalves/clinistock-backend/pkg/redis"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth      auth.Service
	Users     users.Service
	Clinics   clinics.Service
	Materials materials.Service
	Stock     stock.Service
	Movements movements.Service
	Reports   reports.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	var cache controllers.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", controllers.MaterialList(deps.Materials, logg))
			r.Get("/{id}", controllers.MaterialGet(deps.Materials, logg))
			r.Get("/by-category/{category}", controllers.MaterialListByCategory(deps.Materials, logg))
			r.Get("/{id}/distribution", controllers.MaterialDistribution(deps.Reports, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireMaster(logg))
				r.Post("/", controllers.MaterialCreate(deps.Materials, logg))
				r.Put("/{id}", controllers.MaterialUpdate(deps.Materials, logg))
				r.Delete("/{id}", controllers.MaterialDelete(deps.Materials, logg))
				r.Post("/{id}/add-stock", controllers.MaterialAddStock(deps.Materials, logg))
			})
		})

		r.Route("/clinics", func(r chi.Router) {
			r.Get("/", controllers.ClinicList(deps.Clinics, logg))
			r.Get("/{id}", controllers.ClinicDetail(deps.Clinics, deps.Stock, deps.Movements, logg))
			r.Post("/{id}/allocate", controllers.ClinicAllocate(deps.Stock, logg))
			r.Post("/{id}/stock/{materialId}/open", controllers.ClinicSetOpenFlag(deps.Stock, logg))
			r.Delete("/{id}/movements", controllers.ClinicClearMovements(deps.Movements, logg))

			r.With(middleware.RequireRoles(logg, enums.UserRoleUser)).
				Post("/{id}/consume", controllers.ClinicConsume(deps.Stock, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireMaster(logg))
				r.Post("/", controllers.ClinicCreate(deps.Clinics, logg))
				r.Put("/{id}", controllers.ClinicUpdate(deps.Clinics, logg))
				r.Delete("/{id}", controllers.ClinicDelete(deps.Clinics, logg))
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", controllers.DashboardSummary(deps.Reports, logg))
			r.Get("/open-status", controllers.DashboardOpenStatus(deps.Reports, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireMaster(logg))
			r.Get("/", controllers.UserList(deps.Users, logg))
			r.Get("/{id}", controllers.UserGet(deps.Users, logg))
			r.Post("/", controllers.UserCreate(deps.Users, logg))
			r.Put("/{id}", controllers.UserUpdate(deps.Users, logg))
			r.Delete("/{id}", controllers.UserDelete(deps.Users, logg))
		})
	})

	return r
}
