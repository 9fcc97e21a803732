package handler

import (
	"context"
	"net/http"

	"github.com/nateepat/applink/pkg/adapters/geo"
	"github.com/nateepat/applink/pkg/adapters/handler"
	"github.com/nateepat/applink/pkg/adapters/realtime"
	"github.com/nateepat/applink/pkg/adapters/repository/sqlite"
	"github.com/nateepat/applink/pkg/config"
	"github.com/nateepat/applink/pkg/core/services"
	"github.com/nateepat/applink/pkg/logging"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.AppEnv)

	// On Vercel the local file DB is ephemeral; point DATABASE_URL at a
	// Turso/libsql instance for persistence.
	repo, err := sqlite.NewRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	realtimeProvider, err := realtime.NewGA4Provider(context.Background(), cfg.GACredentialsJSON)
	if err != nil {
		panic(err)
	}

	svc := handler.Services{
		Repo:      repo,
		Redirect:  services.NewRedirectService(repo, geo.NewProvider(cfg.GeoAPIBaseURL), cfg.GeoTimeout),
		Apps:      services.NewAppService(repo),
		Campaigns: services.NewCampaignService(repo),
		Settings:  services.NewSettingsService(repo),
		Analytics: services.NewAnalyticsService(repo, realtimeProvider),
		Admin:     services.NewAdminService(repo),
	}

	mux, err = handler.NewRouter(cfg, svc)
	if err != nil {
		panic(err)
	}
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
