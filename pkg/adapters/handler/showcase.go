package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// ShowcaseHandler renders the public landing page listing every
// published app with its smart link.
type ShowcaseHandler struct {
	repo ports.Repository
}

func NewShowcaseHandler(repo ports.Repository) *ShowcaseHandler {
	return &ShowcaseHandler{repo: repo}
}

type showcasePage struct {
	Settings *domain.Settings
	Apps     []domain.App
}

func (h *ShowcaseHandler) Home(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.FirstSettings(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if settings == nil {
		settings = domain.DefaultSettings()
	}

	apps, err := h.repo.ListPublicApps(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "showcase.html", showcasePage{Settings: settings, Apps: apps}); err != nil {
		log.Error().Err(err).Msg("failed to render showcase page")
	}
}
