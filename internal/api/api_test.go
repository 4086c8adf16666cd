package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/api"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/service"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage/memory"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/synth"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/template"
)

// testServer creates a test server with in-memory storage
type testServer struct {
	handler http.Handler
	store   *memory.Store
	apiKey  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	apiKey := "test-api-key"

	s, err := synth.New(synth.DefaultSettings())
	if err != nil {
		t.Fatalf("creating synthesizer: %v", err)
	}
	synthService := service.NewSynthService(s, store, nil)

	handler := api.NewRouter(synthService, api.Options{
		APIKey:   apiKey,
		Variants: domain.KnownVariants(),
		Format:   template.FormatJSON,
	})

	return &testServer{
		handler: handler,
		store:   store,
		apiKey:  apiKey,
	}
}

func (ts *testServer) request(method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request("GET", "/health", nil, "")

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"wrong key", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/template", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			ts.handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rr.Code)
			}
		})
	}

	rr := ts.request("GET", "/api/v1/template", nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 with valid key, got %d", rr.Code)
	}
}

func TestAuthDisabled(t *testing.T) {
	s, err := synth.New(synth.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	handler := api.NewRouter(service.NewSynthService(s, memory.New(), nil), api.Options{})

	req := httptest.NewRequest("GET", "/api/v1/template", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 without a configured key, got %d", rr.Code)
	}
}

func TestTemplatePreview(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request("GET", "/api/v1/template", nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}

	var doc struct {
		Resources map[string]struct {
			Type string `json:"Type"`
		} `json:"Resources"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to decode template: %v", err)
	}
	if len(doc.Resources) != 14 {
		t.Errorf("Expected 14 resources, got %d", len(doc.Resources))
	}
	if doc.Resources["AlertsFunctionUnverified"].Type != "AWS::Lambda::Function" {
		t.Errorf("Expected unverified function in template")
	}

	// Preview records nothing.
	versions, _ := ts.store.ListTemplateVersions(context.Background(), "uk-coronavirus-data-alerts-PROD", 10, 0)
	if len(versions) != 0 {
		t.Errorf("Expected no recorded versions, got %d", len(versions))
	}
}

func TestTemplatePreview_FormatsAndVariants(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request("GET", "/api/v1/template?format=yaml&variants=VERIFIED", nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "AlertsFunctionVerified:") {
		t.Errorf("Expected YAML with the verified function")
	}
	if strings.Contains(rr.Body.String(), "AlertsFunctionUnverified") {
		t.Errorf("Expected only the verified variant")
	}

	rr = ts.request("GET", "/api/v1/template?format=hcl", nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `resource "AWS::Events::Rule" "ScheduleVerified"`) {
		t.Errorf("Expected HCL resource block")
	}

	rr = ts.request("GET", "/api/v1/template?format=toml", nil, ts.apiKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown format, got %d", rr.Code)
	}

	rr = ts.request("GET", "/api/v1/template?variants=MAYBE", nil, ts.apiKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown variant, got %d", rr.Code)
	}
}

func TestTemplatePreview_NotModified(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request("GET", "/api/v1/template", nil, ts.apiKey)
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("Expected ETag header")
	}

	req := httptest.NewRequest("GET", "/api/v1/template", nil)
	req.Header.Set("Authorization", "Bearer "+ts.apiKey)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotModified {
		t.Errorf("Expected status 304, got %d", rr.Code)
	}
}

func TestSynthAndVersions(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request("POST", "/api/v1/synth", nil, ts.apiKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var first domain.SynthResult
	if err := json.Unmarshal(rr.Body.Bytes(), &first); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if first.Status != domain.SynthStatusCreated || first.VersionNumber != 1 {
		t.Errorf("Unexpected result: %+v", first)
	}

	// Same inputs, same digest.
	rr = ts.request("POST", "/api/v1/synth", nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var second domain.SynthResult
	_ = json.Unmarshal(rr.Body.Bytes(), &second)
	if second.Status != domain.SynthStatusUnchanged || second.VersionID != first.VersionID {
		t.Errorf("Expected unchanged result, got %+v", second)
	}

	rr = ts.request("POST", "/api/v1/synth", domain.SynthRequest{Variants: []string{"VERIFIED"}, Format: "yaml"}, ts.apiKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}

	rr = ts.request("GET", "/api/v1/versions", nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var versions []domain.TemplateVersion
	if err := json.Unmarshal(rr.Body.Bytes(), &versions); err != nil {
		t.Fatalf("Failed to decode versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(versions))
	}
	if versions[0].VersionNumber != 2 || versions[0].Format != "yaml" {
		t.Errorf("Expected newest yaml version first, got %+v", versions[0])
	}
	if versions[0].Rendered != "" {
		t.Errorf("Expected list to omit rendered templates")
	}

	rr = ts.request("GET", "/api/v1/versions?limit=1&offset=1", nil, ts.apiKey)
	_ = json.Unmarshal(rr.Body.Bytes(), &versions)
	if len(versions) != 1 || versions[0].ID != first.VersionID {
		t.Errorf("Expected paged result to hold the first version")
	}

	rr = ts.request("GET", "/api/v1/versions/"+first.VersionID, nil, ts.apiKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var version domain.TemplateVersion
	_ = json.Unmarshal(rr.Body.Bytes(), &version)
	if version.Digest != first.Digest || version.Rendered == "" {
		t.Errorf("Expected full version, got digest %s", version.Digest)
	}

	rr = ts.request("GET", "/api/v1/versions/does-not-exist", nil, ts.apiKey)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSynth_InvalidBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/v1/synth", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+ts.apiKey)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}
