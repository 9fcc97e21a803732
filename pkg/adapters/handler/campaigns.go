package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

type CampaignHandler struct {
	campaigns ports.CampaignService
	apps      ports.AppService
	validate  *validator.Validate
	baseURL   string
}

func NewCampaignHandler(campaigns ports.CampaignService, apps ports.AppService, validate *validator.Validate, baseURL string) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, apps: apps, validate: validate, baseURL: baseURL}
}

type campaignRequest struct {
	AppID       string  `json:"app_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	UTMSource   *string `json:"utm_source"`
	UTMMedium   *string `json:"utm_medium"`
	UTMCampaign *string `json:"utm_campaign"`
	UTMTerm     *string `json:"utm_term"`
	UTMContent  *string `json:"utm_content"`
}

// campaignResponse embeds the stored campaign plus the ready-to-share
// tagged URL, so the admin UI never has to compose links itself.
type campaignResponse struct {
	domain.Campaign
	URL string `json:"url"`
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	campaign, err := h.campaigns.Create(r.Context(), userID(r.Context()), &domain.Campaign{
		AppID:       req.AppID,
		Name:        req.Name,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
		UTMTerm:     req.UTMTerm,
		UTMContent:  req.UTMContent,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp, err := h.withURL(r, *campaign)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := userID(r.Context())
	campaigns, err := h.campaigns.List(r.Context(), owner, r.URL.Query().Get("app_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Slug lookups are cached per app so a long campaign list costs one
	// fetch per distinct app.
	slugs := make(map[string]string)
	out := make([]campaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		slug, ok := slugs[c.AppID]
		if !ok {
			app, err := h.apps.Get(r.Context(), owner, c.AppID)
			if err != nil {
				respondError(w, r, err)
				return
			}
			slug = app.Slug
			slugs[c.AppID] = slug
		}
		out = append(out, campaignResponse{Campaign: c, URL: c.BuildURL(h.baseURL, slug)})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.campaigns.Delete(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) withURL(r *http.Request, c domain.Campaign) (*campaignResponse, error) {
	app, err := h.apps.Get(r.Context(), userID(r.Context()), c.AppID)
	if err != nil {
		return nil, err
	}
	return &campaignResponse{Campaign: c, URL: c.BuildURL(h.baseURL, app.Slug)}, nil
}
