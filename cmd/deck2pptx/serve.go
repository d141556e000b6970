package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/config"
	"github.com/alnah/go-deck2pptx/internal/deckclient"
	"github.com/alnah/go-deck2pptx/internal/fileutil"
)

// Server timing constants.
const (
	serverReadTimeout     = 30 * time.Second
	serverWriteTimeout    = 5 * time.Minute // a conversion holds the response open
	serverIdleTimeout     = 2 * time.Minute
	serverShutdownTimeout = 10 * time.Second

	defaultServeAddr = ":8010"

	// maxRequestBody caps conversion request JSON.
	maxRequestBody = 1 << 20
)

// Response media types.
const (
	mediaTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	mediaTypePDF  = "application/pdf"
)

// convertRequest is the body of POST /convert/pptx and /convert/pdf.
// Unknown fields are tolerated so older clients keep working.
type convertRequest struct {
	PresentationURL string   `json:"presentation_url"`
	PresentationID  string   `json:"presentation_id,omitempty"`
	SlideCount      int      `json:"slide_count,omitempty"`
	Variant         string   `json:"variant,omitempty"`
	AspectRatio     string   `json:"aspect_ratio,omitempty"`
	Quality         string   `json:"quality,omitempty"`
	Notes           []string `json:"notes,omitempty"`
}

// convertServer handles deck conversion over HTTP.
type convertServer struct {
	cfg      *config.Config
	baseOpts []deck2pptx.Option
	sem      chan struct{} // bounds concurrent conversions
	timeout  time.Duration
	logger   *log.Logger
}

// runServeCmd parses flags and runs the serve command.
func runServeCmd(args []string, env *Environment) int {
	flags, err := parseServeFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runServe(ctx, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, errorWithHint(err, flags.service.baseURL))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runServe resolves configuration and runs the HTTP server until ctx is done.
func runServe(ctx context.Context, flags *serveFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		var err error
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(envCfg, cfg)

	if err := mergeFlags(cfg, &flags.service, &flags.render, &flags.browser, &flags.assets); err != nil {
		return err
	}
	if flags.corsOrigin != "" {
		cfg.Server.CORSOrigin = flags.corsOrigin
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Convert.TimeoutSeconds)
	if err != nil {
		return err
	}

	addr := flags.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if addr == "" {
		addr = defaultServeAddr
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if workers == 0 {
		workers = cfg.Server.Workers
	}

	srv := &convertServer{
		cfg:      cfg,
		baseOpts: buildOptions(cfg, timeout),
		sem:      make(chan struct{}, deck2pptx.ResolvePoolSize(workers)),
		timeout:  timeout,
		logger:   log.New(env.Stderr, "", log.LstdFlags),
	}

	// Fail at startup, not on the first request
	if err := srv.validateStartup(); err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.corsMiddleware(srv.routes()),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	srv.logger.Printf("deck2pptx serve listening on %s (%d workers)", addr, cap(srv.sem))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// validateStartup verifies the converter can be constructed and a browser
// binary is present before accepting requests.
func (s *convertServer) validateStartup() error {
	conv, err := deck2pptx.NewConverter(s.baseOpts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	if _, err := lookupBrowser(s.cfg.Browser.Bin); err != nil {
		return err
	}
	return nil
}

// routes builds the request mux.
func (s *convertServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/convert/pptx", func(w http.ResponseWriter, r *http.Request) {
		s.handleConvert(w, r, formatPPTX)
	})
	mux.HandleFunc("/convert/pdf", func(w http.ResponseWriter, r *http.Request) {
		s.handleConvert(w, r, formatPDF)
	})
	return mux
}

// handleRoot describes the service.
func (s *convertServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service":      "deck2pptx",
		"version":      Version,
		"status":       "operational",
		"capabilities": []string{"pdf", "pptx"},
		"endpoints": map[string]string{
			"health":       "GET /health",
			"convert_pdf":  "POST /convert/pdf",
			"convert_pptx": "POST /convert/pptx",
		},
	})
}

// handleHealth reports liveness.
func (s *convertServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "deck2pptx",
		"version": Version,
	})
}

// handleConvert converts one presentation and streams the result back.
func (s *convertServer) handleConvert(w http.ResponseWriter, r *http.Request, format outputFormat) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req convertRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	id, baseURL, err := resolveRequestDeck(&req, s.cfg.Service.BaseURL)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SlideCount < 0 {
		writeJSONError(w, http.StatusBadRequest, "slide_count must be positive")
		return
	}

	// Bound concurrent conversions; waiting requests respect disconnects
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		return
	}

	data, err := s.convert(r.Context(), id, baseURL, &req, format)
	if err != nil {
		status := statusForError(err)
		s.logger.Printf("convert %s failed: %v", id, err)
		writeJSONError(w, status, err.Error())
		return
	}

	filename := "presentation-" + fileutil.SafeFileName(id) + "." + format.ext()
	if format == formatPDF {
		w.Header().Set("Content-Type", mediaTypePDF)
	} else {
		w.Header().Set("Content-Type", mediaTypePPTX)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Printf("convert %s: writing response: %v", id, err)
	}
}

// convert fetches the deck and runs one conversion with request overrides.
func (s *convertServer) convert(ctx context.Context, id, baseURL string, req *convertRequest, format outputFormat) ([]byte, error) {
	// Request fields override server defaults
	opts := make([]deck2pptx.Option, len(s.baseOpts), len(s.baseOpts)+3)
	copy(opts, s.baseOpts)
	if req.Variant != "" {
		opts = append(opts, deck2pptx.WithVariant(req.Variant))
	}
	if req.AspectRatio != "" {
		opts = append(opts, deck2pptx.WithAspectRatio(req.AspectRatio))
	}
	if req.Quality != "" {
		opts = append(opts, deck2pptx.WithQuality(req.Quality))
	}

	conv, err := deck2pptx.NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()

	client, err := deckclient.New(baseURL)
	if err != nil {
		return nil, err
	}
	deckData, err := client.FetchDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	deck, err := deck2pptx.ParsePresentation(deckData)
	if err != nil {
		return nil, err
	}

	if req.SlideCount > 0 && req.SlideCount < len(deck.Slides) {
		deck.Slides = deck.Slides[:req.SlideCount]
	}

	input := deck2pptx.Input{
		DeckID:  id,
		BaseURL: baseURL,
		Deck:    deck,
		Notes:   req.Notes,
	}
	if req.PresentationURL != "" {
		input.ViewerURL = req.PresentationURL
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if format == formatPDF {
		return conv.ConvertPDF(ctx, input)
	}
	return conv.Convert(ctx, input)
}

// resolveRequestDeck extracts the deck ID and service base from a request.
// Accepts a full viewer URL or a bare ID plus the configured base URL.
func resolveRequestDeck(req *convertRequest, configuredBase string) (id, baseURL string, err error) {
	switch {
	case req.PresentationURL != "":
		id, err = deckclient.DeckIDFromURL(req.PresentationURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid presentation_url: %v", err)
		}
		baseURL, err = deckclient.ServiceBaseFromURL(req.PresentationURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid presentation_url: %v", err)
		}
		return id, baseURL, nil

	case req.PresentationID != "":
		if configuredBase == "" {
			return "", "", errors.New("presentation_id requires a configured base URL")
		}
		return req.PresentationID, configuredBase, nil

	default:
		return "", "", errors.New("presentation_url is required")
	}
}

// statusForError maps conversion errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, deckclient.ErrDeckNotFound):
		return http.StatusNotFound
	case errors.Is(err, deckclient.ErrServiceRequest),
		errors.Is(err, deckclient.ErrUnexpectedStatus):
		return http.StatusBadGateway
	case errors.Is(err, deck2pptx.ErrInvalidInput),
		errors.Is(err, deck2pptx.ErrNoSlides),
		errors.Is(err, deck2pptx.ErrDeckTooLarge),
		errors.Is(err, deck2pptx.ErrInvalidVariant),
		errors.Is(err, deck2pptx.ErrInvalidQuality),
		errors.Is(err, deck2pptx.ErrInvalidAspectRatio),
		errors.Is(err, deckclient.ErrResponseTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, deck2pptx.ErrUnsupportedLayout):
		return http.StatusUnprocessableEntity
	case errors.Is(err, deck2pptx.ErrRenderTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// corsMiddleware applies the configured origin allow-list.
func (s *convertServer) corsMiddleware(next http.Handler) http.Handler {
	allowed := s.cfg.Server.CORSOrigin
	if allowed == "" {
		allowed = "*"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := allowedOrigin(allowed, r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowedOrigin matches a request origin against a comma-separated allow-list.
// Returns the header value to set, or "" to omit CORS headers.
func allowedOrigin(allowList, origin string) string {
	for _, entry := range strings.Split(allowList, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "*" {
			return "*"
		}
		if entry != "" && entry == origin {
			return origin
		}
	}
	return ""
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already written; nothing useful to do on encode failure
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes an error response as {"error": message}.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
