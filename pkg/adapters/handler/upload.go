package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nateepat/applink/pkg/core/domain"
)

const maxUploadSize = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// UploadHandler stores logo images on disk and serves them back.
// Filenames are regenerated on upload, so a served name can never be
// attacker-chosen.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) (*UploadHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadHandler{dir: dir}, nil
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, fmt.Errorf("%w: file too large or malformed form", domain.ErrValidation))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: missing file field", domain.ErrValidation))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedImageTypes[ext]; !ok {
		respondError(w, r, fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext))
		return
	}

	name := fmt.Sprintf("logo-%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		respondError(w, r, fmt.Errorf("create upload file: %w", err))
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		respondError(w, r, fmt.Errorf("write upload file: %w", err))
		return
	}

	log.Info().Str("file", name).Int64("size", header.Size).Msg("logo uploaded")
	respondJSON(w, http.StatusCreated, map[string]string{"url": "/uploads/" + name})
}

// Serve returns a stored upload. The filename is normalized to its
// base component, so path traversal cannot escape the upload dir.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "filename"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	contentType, ok := allowedImageTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filepath.Join(h.dir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	// Uploaded names embed a UUID and never repeat, so the content at
	// a given URL is immutable.
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, info.ModTime(), f)
}
