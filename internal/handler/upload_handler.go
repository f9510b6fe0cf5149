package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/perkloop/perkloop/pkg/pinning"
)

type uploadHandler struct {
	uploads  Uploader
	profiles ProfileService
	log      *slog.Logger
	maxSize  int64
}

// uploadResponse is the upload outcome plus a fetchable gateway URL.
type uploadResponse struct {
	pinning.Outcome
	URL string `json:"url,omitempty"`
}

// upload accepts a multipart file, routes it to the account's preferred
// provider (or an explicit "provider" form value), and reports the outcome.
// Provider failures surface in the outcome body, not as HTTP errors.
func (h *uploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	addr, ok := wallet(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit or is malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	preferred := h.profiles.PreferredProvider(r.Context(), addr)
	if v := r.FormValue("provider"); v != "" {
		preferred = pinning.ParseProvider(v)
	}

	outcome := h.uploads.Upload(r.Context(), pinning.File{
		Name:    header.Filename,
		Size:    header.Size,
		Content: content,
	}, preferred)

	if outcome.Fallback {
		h.log.InfoContext(r.Context(), "upload fell back to primary provider",
			"wallet", addr, "requested", preferred, "used", outcome.Provider)
	}

	respondJSON(w, http.StatusOK, uploadResponse{
		Outcome: outcome,
		URL:     pinning.GatewayURL(outcome.CID, outcome.Provider),
	})
}
