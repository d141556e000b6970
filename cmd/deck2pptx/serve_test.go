package main

// Notes:
// - The full conversion path (POST /convert/* with a reachable deck) needs a
//   live browser, so success responses are not tested here. Request
//   validation, error mapping, and response shape are.
// - runServe is not tested end-to-end: it binds a real port and probes for a
//   browser binary at startup. Its flag and config resolution pieces are
//   covered by their own tests.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/config"
	"github.com/alnah/go-deck2pptx/internal/deckclient"
)

// newTestServer builds a convertServer with a quiet logger and one worker.
func newTestServer(cfg *config.Config) *convertServer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &convertServer{
		cfg:    cfg,
		sem:    make(chan struct{}, 1),
		logger: log.New(io.Discard, "", 0),
	}
}

// ---------------------------------------------------------------------------
// TestHandleRoot - Service info endpoint
// ---------------------------------------------------------------------------

func TestHandleRoot(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		Service      string            `json:"service"`
		Version      string            `json:"version"`
		Status       string            `json:"status"`
		Capabilities []string          `json:"capabilities"`
		Endpoints    map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response should be valid JSON: %v", err)
	}

	if body.Service != "deck2pptx" {
		t.Errorf("service = %q, want deck2pptx", body.Service)
	}
	if body.Version != Version {
		t.Errorf("version = %q, want %q", body.Version, Version)
	}
	if body.Status != "operational" {
		t.Errorf("status = %q, want operational", body.Status)
	}

	caps := strings.Join(body.Capabilities, ",")
	if !strings.Contains(caps, "pptx") || !strings.Contains(caps, "pdf") {
		t.Errorf("capabilities = %v, want pdf and pptx", body.Capabilities)
	}

	for _, key := range []string{"health", "convert_pdf", "convert_pptx"} {
		if _, ok := body.Endpoints[key]; !ok {
			t.Errorf("endpoints should list %q", key)
		}
	}
}

func TestHandleRoot_UnknownPath(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "not found") {
		t.Errorf("body should contain 'not found', got %q", rec.Body.String())
	}
}

func TestHandleRoot_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

// ---------------------------------------------------------------------------
// TestHandleHealth - Health check endpoint
// ---------------------------------------------------------------------------

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response should be valid JSON: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if body.Service != "deck2pptx" {
		t.Errorf("service = %q, want deck2pptx", body.Service)
	}
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(nil)
	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

// ---------------------------------------------------------------------------
// TestHandleConvert_Validation - Request validation before conversion
// ---------------------------------------------------------------------------

func TestHandleConvert_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantInBody string
	}{
		{
			name:       "wrong method",
			method:     http.MethodGet,
			path:       "/convert/pptx",
			body:       "",
			wantStatus: http.StatusMethodNotAllowed,
			wantInBody: "method not allowed",
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			path:       "/convert/pptx",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid JSON body",
		},
		{
			name:       "missing presentation_url",
			method:     http.MethodPost,
			path:       "/convert/pptx",
			body:       "{}",
			wantStatus: http.StatusBadRequest,
			wantInBody: "presentation_url is required",
		},
		{
			name:       "presentation_id without configured base",
			method:     http.MethodPost,
			path:       "/convert/pptx",
			body:       `{"presentation_id":"deck-7"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "configured base URL",
		},
		{
			name:       "viewer URL without deck segment",
			method:     http.MethodPost,
			path:       "/convert/pptx",
			body:       `{"presentation_url":"http://localhost:9/decks/1"}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid presentation_url",
		},
		{
			name:       "negative slide_count",
			method:     http.MethodPost,
			path:       "/convert/pptx",
			body:       `{"presentation_url":"http://localhost:9/p/deck-1","slide_count":-3}`,
			wantStatus: http.StatusBadRequest,
			wantInBody: "slide_count must be positive",
		},
		{
			name:       "pdf endpoint validates too",
			method:     http.MethodPost,
			path:       "/convert/pdf",
			body:       "{}",
			wantStatus: http.StatusBadRequest,
			wantInBody: "presentation_url is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(nil)
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			srv.routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantInBody) {
				t.Errorf("body should contain %q, got %q", tt.wantInBody, rec.Body.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHandleConvert_DeckNotFound - Error mapping through the handler
// ---------------------------------------------------------------------------

func TestHandleConvert_DeckNotFound(t *testing.T) {
	t.Parallel()

	// Deck service that has no decks
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	srv := newTestServer(nil)
	body := fmt.Sprintf(`{"presentation_url":%q}`, ts.URL+"/p/ghost-deck")
	req := httptest.NewRequest(http.MethodPost, "/convert/pptx", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "ghost-deck") {
		t.Errorf("body should name the missing deck, got %q", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// TestResolveRequestDeck - Deck identity resolution from request fields
// ---------------------------------------------------------------------------

func TestResolveRequestDeck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		req            convertRequest
		configuredBase string
		wantID         string
		wantBase       string
		wantErr        string
	}{
		{
			name:     "full viewer URL",
			req:      convertRequest{PresentationURL: "https://slides.example.com/p/q1-review"},
			wantID:   "q1-review",
			wantBase: "https://slides.example.com",
		},
		{
			name:     "viewer URL with query string",
			req:      convertRequest{PresentationURL: "https://slides.example.com/p/deck-1?page=2"},
			wantID:   "deck-1",
			wantBase: "https://slides.example.com",
		},
		{
			name:    "URL without deck segment",
			req:     convertRequest{PresentationURL: "https://example.com/decks/1"},
			wantErr: "invalid presentation_url",
		},
		{
			name:           "bare ID with configured base",
			req:            convertRequest{PresentationID: "deck-7"},
			configuredBase: "http://localhost:3000",
			wantID:         "deck-7",
			wantBase:       "http://localhost:3000",
		},
		{
			name:    "bare ID without configured base",
			req:     convertRequest{PresentationID: "deck-7"},
			wantErr: "configured base URL",
		},
		{
			name:    "empty request",
			req:     convertRequest{},
			wantErr: "presentation_url is required",
		},
		{
			name: "URL takes precedence over ID",
			req: convertRequest{
				PresentationURL: "https://slides.example.com/p/from-url",
				PresentationID:  "from-id",
			},
			configuredBase: "http://localhost:3000",
			wantID:         "from-url",
			wantBase:       "https://slides.example.com",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, base, err := resolveRequestDeck(&tt.req, tt.configuredBase)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, should contain %q", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q", base, tt.wantBase)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStatusForError - Error to HTTP status mapping
// ---------------------------------------------------------------------------

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"deck not found", deckclient.ErrDeckNotFound, http.StatusNotFound},
		{"service request", deckclient.ErrServiceRequest, http.StatusBadGateway},
		{"unexpected status", deckclient.ErrUnexpectedStatus, http.StatusBadGateway},
		{"invalid input", deck2pptx.ErrInvalidInput, http.StatusBadRequest},
		{"no slides", deck2pptx.ErrNoSlides, http.StatusBadRequest},
		{"deck too large", deck2pptx.ErrDeckTooLarge, http.StatusBadRequest},
		{"invalid variant", deck2pptx.ErrInvalidVariant, http.StatusBadRequest},
		{"invalid quality", deck2pptx.ErrInvalidQuality, http.StatusBadRequest},
		{"invalid aspect ratio", deck2pptx.ErrInvalidAspectRatio, http.StatusBadRequest},
		{"response too large", deckclient.ErrResponseTooLarge, http.StatusBadRequest},
		{"unsupported layout", deck2pptx.ErrUnsupportedLayout, http.StatusUnprocessableEntity},
		{"render timeout", deck2pptx.ErrRenderTimeout, http.StatusGatewayTimeout},
		{"deadline exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"wrapped deck not found", fmt.Errorf("fetching: %w", deckclient.ErrDeckNotFound), http.StatusNotFound},
		{"wrapped timeout", fmt.Errorf("slide 3: %w", deck2pptx.ErrRenderTimeout), http.StatusGatewayTimeout},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAllowedOrigin - CORS allow-list matching
// ---------------------------------------------------------------------------

func TestAllowedOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		allowList string
		origin    string
		want      string
	}{
		{"wildcard", "*", "https://app.example.com", "*"},
		{"wildcard without origin", "*", "", "*"},
		{"exact match", "https://app.example.com", "https://app.example.com", "https://app.example.com"},
		{"no match", "https://app.example.com", "https://evil.example.com", ""},
		{"multi-entry match", "https://a.example.com,https://b.example.com", "https://b.example.com", "https://b.example.com"},
		{"multi-entry with spaces", "https://a.example.com, https://b.example.com", "https://b.example.com", "https://b.example.com"},
		{"empty origin against list", "https://a.example.com", "", ""},
		{"empty allow-list", "", "https://app.example.com", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := allowedOrigin(tt.allowList, tt.origin); got != tt.want {
				t.Errorf("allowedOrigin(%q, %q) = %q, want %q", tt.allowList, tt.origin, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCorsMiddleware - CORS headers and preflight
// ---------------------------------------------------------------------------

func TestCorsMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("default allows any origin", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(nil)
		handler := srv.corsMiddleware(srv.routes())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Error("Access-Control-Allow-Methods should be set")
		}
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("configured origin is echoed", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Server.CORSOrigin = "https://app.example.com"
		srv := newTestServer(cfg)
		handler := srv.corsMiddleware(srv.routes())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q, want the configured origin", got)
		}
	})

	t.Run("mismatched origin gets no CORS headers", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Server.CORSOrigin = "https://app.example.com"
		srv := newTestServer(cfg)
		handler := srv.corsMiddleware(srv.routes())

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("request should still be served, status = %d", rec.Code)
		}
	})

	t.Run("preflight returns 204", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(nil)
		handler := srv.corsMiddleware(srv.routes())

		req := httptest.NewRequest(http.MethodOptions, "/convert/pptx", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("OPTIONS status = %d, want %d", rec.Code, http.StatusNoContent)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("preflight body should be empty, got %q", rec.Body.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseServeFlags - Serve flag parsing
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		f, err := parseServeFlags(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.addr != "" || f.workers != 0 || f.timeout != "" || f.corsOrigin != "" {
			t.Errorf("defaults should be zero values, got %+v", f)
		}
	})

	t.Run("long flags", func(t *testing.T) {
		t.Parallel()

		f, err := parseServeFlags([]string{
			"--addr", ":9000",
			"--workers", "4",
			"--timeout", "45s",
			"--cors-origin", "https://app.example.com",
			"--base-url", "http://localhost:3000",
			"--quiet",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.addr != ":9000" {
			t.Errorf("addr = %q, want :9000", f.addr)
		}
		if f.workers != 4 {
			t.Errorf("workers = %d, want 4", f.workers)
		}
		if f.timeout != "45s" {
			t.Errorf("timeout = %q, want 45s", f.timeout)
		}
		if f.corsOrigin != "https://app.example.com" {
			t.Errorf("corsOrigin = %q", f.corsOrigin)
		}
		if f.service.baseURL != "http://localhost:3000" {
			t.Errorf("baseURL = %q", f.service.baseURL)
		}
		if !f.common.quiet {
			t.Error("quiet should be set")
		}
	})

	t.Run("short flags", func(t *testing.T) {
		t.Parallel()

		f, err := parseServeFlags([]string{"-a", ":7000", "-w", "2", "-t", "1m", "-b", "http://localhost:3000"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.addr != ":7000" || f.workers != 2 || f.timeout != "1m" {
			t.Errorf("short flags not parsed, got %+v", f)
		}
		if f.service.baseURL != "http://localhost:3000" {
			t.Errorf("baseURL = %q", f.service.baseURL)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		if _, err := parseServeFlags([]string{"--bogus"}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}
