package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

type AppHandler struct {
	apps     ports.AppService
	validate *validator.Validate
}

func NewAppHandler(apps ports.AppService, validate *validator.Validate) *AppHandler {
	return &AppHandler{apps: apps, validate: validate}
}

// appRequest is the create/update payload. Destination and OG fields
// are all optional; an app with no destinations still renders its
// fallback page.
type appRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Slug          string `json:"slug" validate:"required,max=100,excludesall= /"`
	Description   string `json:"description" validate:"max=2000"`
	LogoURL       string `json:"logo_url" validate:"omitempty,max=500"`
	AndroidURL    string `json:"android_url" validate:"omitempty,url"`
	IOSURL        string `json:"ios_url" validate:"omitempty,url"`
	FallbackURL   string `json:"fallback_url" validate:"omitempty,url"`
	OGTitle       string `json:"og_title" validate:"max=300"`
	OGDescription string `json:"og_description" validate:"max=2000"`
	OGImage       string `json:"og_image" validate:"omitempty,max=500"`
	GA4PropertyID string `json:"ga4_property_id" validate:"omitempty,numeric"`
}

func (req *appRequest) toDomain() *domain.App {
	return &domain.App{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		LogoURL:       req.LogoURL,
		AndroidURL:    req.AndroidURL,
		IOSURL:        req.IOSURL,
		FallbackURL:   req.FallbackURL,
		OGTitle:       req.OGTitle,
		OGDescription: req.OGDescription,
		OGImage:       req.OGImage,
		GA4PropertyID: req.GA4PropertyID,
	}
}

func (h *AppHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req appRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	app, err := h.apps.Create(r.Context(), userID(r.Context()), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, app)
}

func (h *AppHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.List(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if apps == nil {
		apps = []domain.App{}
	}
	respondJSON(w, http.StatusOK, apps)
}

func (h *AppHandler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.apps.Get(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

func (h *AppHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req appRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	app, err := h.apps.Update(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

func (h *AppHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.apps.Delete(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
