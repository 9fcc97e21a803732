package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nateepat/applink/pkg/config"
	"github.com/nateepat/applink/pkg/ports"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Repo      ports.Repository
	Redirect  ports.RedirectService
	Apps      ports.AppService
	Campaigns ports.CampaignService
	Settings  ports.SettingsService
	Analytics ports.AnalyticsService
	Admin     ports.AdminService
}

// NewRouter assembles the full HTTP surface: public showcase and smart
// links, the Google OAuth flow, and the authenticated admin API.
func NewRouter(cfg *config.Config, svc Services) (http.Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	uploadHandler, err := NewUploadHandler(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	appHandler := NewAppHandler(svc.Apps, validate)
	campaignHandler := NewCampaignHandler(svc.Campaigns, svc.Apps, validate, cfg.BaseURL)
	settingsHandler := NewSettingsHandler(svc.Settings, validate)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics, cfg.GA4PropertyID)
	adminDataHandler := NewAdminDataHandler(svc.Admin)
	redirectHandler := NewRedirectHandler(svc.Redirect)
	showcaseHandler := NewShowcaseHandler(svc.Repo)
	authHandler := NewAuthHandler(cfg, svc.Repo)
	mw := NewMiddleware(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/", showcaseHandler.Home)
	r.Get("/uploads/{filename}", uploadHandler.Serve)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, time.Minute))
		r.Get("/auth/google/login", authHandler.Login)
		r.Get("/auth/google/callback", authHandler.Callback)
		r.Get("/auth/logout", authHandler.Logout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth)

		r.Post("/apps", appHandler.Create)
		r.Get("/apps", appHandler.List)
		r.Get("/apps/{id}", appHandler.Get)
		r.Put("/apps/{id}", appHandler.Update)
		r.Delete("/apps/{id}", appHandler.Delete)

		r.Post("/campaigns", campaignHandler.Create)
		r.Get("/campaigns", campaignHandler.List)
		r.Delete("/campaigns/{id}", campaignHandler.Delete)

		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)

		r.Get("/analytics/dashboard", analyticsHandler.Dashboard)
		r.Get("/analytics/apps/{id}", analyticsHandler.AppStats)
		r.Get("/analytics/realtime", analyticsHandler.Realtime)
		r.Post("/analytics/batch-realtime", analyticsHandler.BatchRealtime)

		r.Get("/admin/data", adminDataHandler.Export)
		r.Post("/admin/data", adminDataHandler.Import)

		r.Post("/upload", uploadHandler.Upload)
	})

	// Smart links claim the remaining top-level paths. Rate limited so
	// a bot hammering one slug cannot exhaust the geo lookup budget.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(120, time.Minute))
		r.Get("/{slug}", redirectHandler.Open)
	})

	return r, nil
}
