package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// RedirectHandler serves the public smart link: GET /{slug} either
// 302s to the store matching the visitor's device or renders the
// fallback page with the app's store links and OG metadata.
type RedirectHandler struct {
	service ports.RedirectService
}

func NewRedirectHandler(service ports.RedirectService) *RedirectHandler {
	return &RedirectHandler{service: service}
}

type fallbackPage struct {
	Title       string
	Description string
	Image       string
	App         *domain.App
}

func (h *RedirectHandler) Open(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	signals := domain.Signals{
		UserAgent:     r.UserAgent(),
		Referrer:      r.Referer(),
		Query:         r.URL.Query(),
		CountryHeader: r.Header.Get("X-Vercel-IP-Country"),
		CityHeader:    r.Header.Get("X-Vercel-IP-City"),
		ForwardedFor:  r.Header.Get("X-Forwarded-For"),
		RemoteAddr:    r.RemoteAddr,
	}

	decision, err := h.service.Resolve(r.Context(), slug, signals)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			redirectsTotal.WithLabelValues("not_found").Inc()
			http.NotFound(w, r)
			return
		}
		redirectsTotal.WithLabelValues("error").Inc()
		respondError(w, r, err)
		return
	}

	if decision.Action == domain.ActionRedirect {
		redirectsTotal.WithLabelValues("redirect").Inc()
		http.Redirect(w, r, decision.URL, http.StatusFound)
		return
	}

	redirectsTotal.WithLabelValues("fallback").Inc()
	h.renderFallback(w, decision.App)
}

// renderFallback writes the store-links page. OG fields fall back to
// the app's own name, description and logo when unset.
func (h *RedirectHandler) renderFallback(w http.ResponseWriter, app *domain.App) {
	page := fallbackPage{
		Title:       app.OGTitle,
		Description: app.OGDescription,
		Image:       app.OGImage,
		App:         app,
	}
	if page.Title == "" {
		page.Title = app.Name
	}
	if page.Description == "" {
		page.Description = app.Description
	}
	if page.Image == "" {
		page.Image = app.LogoURL
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "fallback.html", page); err != nil {
		log.Error().Err(err).Str("slug", app.Slug).Msg("failed to render fallback page")
	}
}
