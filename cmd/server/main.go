package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/adapters/geo"
	"github.com/nateepat/applink/pkg/adapters/handler"
	"github.com/nateepat/applink/pkg/adapters/realtime"
	"github.com/nateepat/applink/pkg/adapters/repository/sqlite"
	"github.com/nateepat/applink/pkg/config"
	"github.com/nateepat/applink/pkg/core/services"
	"github.com/nateepat/applink/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.AppEnv)

	repo, err := sqlite.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	geoProvider := geo.NewProvider(cfg.GeoAPIBaseURL)
	realtimeProvider, err := realtime.NewGA4Provider(context.Background(), cfg.GACredentialsJSON)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analytics provider")
	}

	svc := handler.Services{
		Repo:      repo,
		Redirect:  services.NewRedirectService(repo, geoProvider, cfg.GeoTimeout),
		Apps:      services.NewAppService(repo),
		Campaigns: services.NewCampaignService(repo),
		Settings:  services.NewSettingsService(repo),
		Analytics: services.NewAnalyticsService(repo, realtimeProvider),
		Admin:     services.NewAdminService(repo),
	}

	router, err := handler.NewRouter(cfg, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
