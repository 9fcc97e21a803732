package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

// AdminDataHandler serves the full-database snapshot endpoints used
// for backup and restore from the admin UI.
type AdminDataHandler struct {
	admin ports.AdminService
}

func NewAdminDataHandler(admin ports.AdminService) *AdminDataHandler {
	return &AdminDataHandler{admin: admin}
}

func (h *AdminDataHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.admin.Export(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("applink-export-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		log.Error().Err(err).Msg("failed to stream export")
	}
}

func (h *AdminDataHandler) Import(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		respondError(w, r, fmt.Errorf("%w: malformed snapshot", domain.ErrValidation))
		return
	}

	if err := h.admin.Import(r.Context(), &snapshot); err != nil {
		respondError(w, r, err)
		return
	}

	log.Info().
		Int("users", len(snapshot.Data.Users)).
		Int("apps", len(snapshot.Data.Apps)).
		Int("visits", len(snapshot.Data.Visits)).
		Msg("snapshot imported")
	respondJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
