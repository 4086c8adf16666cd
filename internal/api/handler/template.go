package handler

import (
	"net/http"
	"strings"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/service"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
)

// TemplateHandler handles template preview and synth endpoints.
type TemplateHandler struct {
	synthService  *service.SynthService
	variants      []domain.Variant
	defaultFormat template.Format
}

// NewTemplateHandler creates a new TemplateHandler. variants and defaultFormat
// apply when a request does not name its own.
func NewTemplateHandler(synthService *service.SynthService, variants []domain.Variant, defaultFormat template.Format) *TemplateHandler {
	return &TemplateHandler{
		synthService:  synthService,
		variants:      variants,
		defaultFormat: defaultFormat,
	}
}

// Preview renders the template without recording it.
// Query parameters: format (json, yaml, hcl) and variants (comma separated).
func (h *TemplateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	format, err := h.format(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, err)
		return
	}

	var tags []string
	if v := r.URL.Query().Get("variants"); v != "" {
		tags = strings.Split(v, ",")
	}
	variants, err := h.parseVariants(tags)
	if err != nil {
		handleError(w, err)
		return
	}

	rendering, err := h.synthService.Preview(r.Context(), variants, format)
	if err != nil {
		handleError(w, err)
		return
	}

	setDigestETag(w, rendering.Digest)
	if notModified(r, rendering.Digest) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(rendering.Data)
}

// Synth renders the template and records it in the version history.
// Responds 201 when a new version was recorded and 200 when unchanged.
func (h *TemplateHandler) Synth(w http.ResponseWriter, r *http.Request) {
	var req domain.SynthRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	format, err := h.format(req.Format)
	if err != nil {
		handleError(w, err)
		return
	}
	variants, err := h.parseVariants(req.Variants)
	if err != nil {
		handleError(w, err)
		return
	}

	result, err := h.synthService.Run(r.Context(), variants, format, nil)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == domain.SynthStatusCreated {
		status = http.StatusCreated
	}
	setDigestETag(w, result.Digest)
	respondJSON(w, status, result)
}

func (h *TemplateHandler) format(name string) (template.Format, error) {
	if name == "" {
		return h.defaultFormat, nil
	}
	return template.ParseFormat(name)
}

func (h *TemplateHandler) parseVariants(tags []string) ([]domain.Variant, error) {
	if len(tags) == 0 {
		return h.variants, nil
	}
	return domain.ParseVariants(tags)
}
