package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/service"
)

// VersionHandler handles template version history endpoints.
type VersionHandler struct {
	synthService *service.SynthService
}

// NewVersionHandler creates a new VersionHandler.
func NewVersionHandler(synthService *service.SynthService) *VersionHandler {
	return &VersionHandler{synthService: synthService}
}

// List lists recorded versions, newest first. Rendered templates are omitted.
func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	versions, err := h.synthService.ListVersions(r.Context(), limit, offset)
	if err != nil {
		handleError(w, err)
		return
	}

	for _, v := range versions {
		v.Rendered = ""
	}
	respondJSON(w, http.StatusOK, versions)
}

// Get returns one version including its rendered template.
func (h *VersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	version, err := h.synthService.GetVersion(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	setDigestETag(w, version.Digest)
	respondJSON(w, http.StatusOK, version)
}
