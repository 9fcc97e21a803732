package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nateepat/applink/pkg/ports"
)

type AnalyticsHandler struct {
	analytics ports.AnalyticsService

	// defaultPropertyID is the site-wide GA4 property used when the
	// realtime endpoint is called without an explicit property_id.
	defaultPropertyID string
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, defaultPropertyID string) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, defaultPropertyID: defaultPropertyID}
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Dashboard(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) AppStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.AppStats(r.Context(), userID(r.Context()),
		chi.URLParam(r, "id"), r.URL.Query().Get("range"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	propertyID := r.URL.Query().Get("property_id")
	if propertyID == "" {
		propertyID = h.defaultPropertyID
	}

	report, err := h.analytics.Realtime(r.Context(), propertyID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

type batchRealtimeRequest struct {
	AppIDs []string `json:"app_ids"`
}

func (h *AnalyticsHandler) BatchRealtime(w http.ResponseWriter, r *http.Request) {
	var req batchRealtimeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	entries, err := h.analytics.BatchRealtime(r.Context(), userID(r.Context()), req.AppIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
