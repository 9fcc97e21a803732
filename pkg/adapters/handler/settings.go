package handler

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

type SettingsHandler struct {
	settings ports.SettingsService
	validate *validator.Validate
}

func NewSettingsHandler(settings ports.SettingsService, validate *validator.Validate) *SettingsHandler {
	return &SettingsHandler{settings: settings, validate: validate}
}

type settingsRequest struct {
	SiteTitle       string `json:"site_title" validate:"required,max=200"`
	SiteDescription string `json:"site_description" validate:"max=2000"`
	ShowAdminLink   bool   `json:"show_admin_link"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	settings, err := h.settings.Update(r.Context(), userID(r.Context()), &domain.Settings{
		SiteTitle:       req.SiteTitle,
		SiteDescription: req.SiteDescription,
		ShowAdminLink:   req.ShowAdminLink,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
