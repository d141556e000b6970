package deck2pptx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-deck2pptx/internal/assets"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ captureSession = (*rodSession)(nil)
	_ layoutRenderer = gridLayoutRenderer{}
	_ assembler      = (*gridAssembler)(nil)
	_ assembler      = (*screenshotAssembler)(nil)
)

// Converter turns rendered decks into PPTX or PDF files.
// Create with NewConverter and use Convert or ConvertPDF as often as
// needed; each call opens its own capture session and closes it before
// returning. For concurrent jobs use ConverterPool.
type Converter struct {
	cfg        converterConfig
	assembler  assembler
	newSession func(sessionConfig) captureSession
	settle     time.Duration
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithQuality, WithAspectRatio,
// WithAssetPath). Returns an error if an option holds an invalid value or
// the asset path cannot be used.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:      defaultTimeout,
			variant:      VariantNative,
			quality:      QualityHigh,
			aspect:       Aspect16x9,
			layoutPolicy: LayoutWarn,
			viewportW:    defaultViewportW,
			viewportH:    defaultViewportH,
			deviceScale:  defaultDeviceScale,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Store-only options carry user-supplied strings, so a bad value
	// surfaces as an error here rather than a panic at option time.
	c.cfg.variant = strings.ToLower(c.cfg.variant)
	c.cfg.quality = strings.ToLower(c.cfg.quality)
	c.cfg.layoutPolicy = strings.ToLower(c.cfg.layoutPolicy)

	if !isValidVariant(c.cfg.variant) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVariant, c.cfg.variant)
	}
	if !isValidQuality(c.cfg.quality) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuality, c.cfg.quality)
	}
	if !isValidAspectRatio(c.cfg.aspect) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAspectRatio, c.cfg.aspect)
	}
	if !isValidLayoutPolicy(c.cfg.layoutPolicy) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLayoutPolicy, c.cfg.layoutPolicy)
	}

	if err := c.resolveStyles(); err != nil {
		return nil, err
	}

	switch c.cfg.variant {
	case VariantScreenshot:
		c.assembler = newScreenshotAssembler(c.cfg.aspect, c.cfg.quality)
	default:
		c.assembler = newGridAssembler(gridLayoutRenderer{}, c.cfg.aspect, c.cfg.layoutPolicy, c.cfg.logger)
	}

	c.newSession = func(cfg sessionConfig) captureSession {
		return newRodSession(cfg)
	}
	c.settle = printSettleDelay

	return c, nil
}

// resolveStyles loads the capture and print stylesheets, preferring files
// from the configured asset path over the embedded defaults.
func (c *Converter) resolveStyles() error {
	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	captureStyle, err := resolver.LoadStyle(assets.CaptureStyleName)
	if err != nil {
		return fmt.Errorf("loading capture style: %w", err)
	}
	printStyle, err := resolver.LoadStyle(assets.PrintStyleName)
	if err != nil {
		return fmt.Errorf("loading print style: %w", err)
	}

	c.cfg.captureCSS = captureStyle
	c.cfg.printCSS = printStyle
	return nil
}

// Convert renders the deck described by input and returns the PPTX bytes.
// The context cancels the job early; the configured timeout caps it
// regardless. The capture session opened for the job is closed on every
// exit path.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	input, err = resolveInput(input)
	if err != nil {
		return nil, err
	}
	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	session := c.newSession(c.captureConfig())
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.warnf("closing capture session: %v", cerr)
		}
	}()

	if err := session.Navigate(ctx, input.ViewerURL); err != nil {
		return nil, err
	}

	return c.assembler.Assemble(ctx, input.Deck, input.Notes, session)
}

// ConvertPDF renders the deck through the viewer's print-pdf mode and
// returns the PDF bytes. Only the viewer URL is needed; the deck JSON is
// not consulted.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) ConvertPDF(ctx context.Context, input Input) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	input, err = resolveInput(input)
	if err != nil {
		return nil, err
	}
	if input.ViewerURL == "" {
		return nil, fmt.Errorf("%w: viewer URL required (set ViewerURL or BaseURL and DeckID)", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	session := c.newSession(c.printConfig())
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.warnf("closing capture session: %v", cerr)
		}
	}()

	if err := session.Navigate(ctx, printURL(input.ViewerURL)); err != nil {
		return nil, err
	}

	// Give late-arriving charts and the injected stylesheet time to
	// settle before printing.
	select {
	case <-time.After(c.settle):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return session.PrintPDF(ctx, defaultPDFOptions(c.cfg.quality))
}

// Close releases converter resources.
// Capture sessions are opened and closed per conversion, so there is
// nothing live to release here. ConverterPool calls this when draining.
func (c *Converter) Close() error {
	return nil
}

// validateInput checks that required fields are present.
//
// This is a TRUST BOUNDARY for direct library users who build Input
// manually. CLI and server users have their input validated earlier at
// flag and request parse time. Both paths converge here, ensuring all
// inputs are validated before a browser is launched.
func (c *Converter) validateInput(input Input) error {
	if input.ViewerURL == "" {
		return fmt.Errorf("%w: viewer URL required (set ViewerURL or BaseURL and DeckID)", ErrInvalidInput)
	}
	if input.Deck == nil {
		return fmt.Errorf("%w: deck required (set Deck or DeckJSON)", ErrInvalidInput)
	}
	if len(input.Deck.Slides) == 0 {
		return ErrNoSlides
	}
	return nil
}

// captureConfig builds the session configuration for interactive capture.
func (c *Converter) captureConfig() sessionConfig {
	return sessionConfig{
		browserBin:  c.cfg.browserBin,
		viewportW:   c.cfg.viewportW,
		viewportH:   c.cfg.viewportH,
		deviceScale: c.cfg.deviceScale,
		injectCSS:   joinCSS(c.cfg.captureCSS, c.cfg.injectCSS),
		logger:      c.cfg.logger,
	}
}

// printConfig builds the session configuration for print-pdf rendering.
// Print mode lays out every slide in one document flow, so it gets a
// longer ready wait and a quality-scaled viewport.
func (c *Converter) printConfig() sessionConfig {
	w, h := qualityViewport(c.cfg.quality)
	return sessionConfig{
		browserBin:  c.cfg.browserBin,
		viewportW:   w,
		viewportH:   h,
		deviceScale: 1.0,
		injectCSS:   joinCSS(c.cfg.printCSS, c.cfg.injectCSS),
		readyWait:   printReadyTimeout,
		logger:      c.cfg.logger,
	}
}

func (c *Converter) warnf(format string, args ...any) {
	if c.cfg.logger != nil {
		c.cfg.logger.Printf(format, args...)
	}
}

// resolveInput fills derived fields: it parses DeckJSON when Deck is
// absent and builds ViewerURL from BaseURL and DeckID.
func resolveInput(input Input) (Input, error) {
	if input.Deck == nil && len(input.DeckJSON) > 0 {
		deck, err := ParsePresentation(input.DeckJSON)
		if err != nil {
			return input, err
		}
		input.Deck = deck
	}
	if input.ViewerURL == "" && input.BaseURL != "" && input.DeckID != "" {
		input.ViewerURL = viewerURL(input.BaseURL, input.DeckID)
	}
	return input, nil
}

// viewerURL returns the public viewer address for a deck.
func viewerURL(baseURL, deckID string) string {
	return strings.TrimRight(baseURL, "/") + "/p/" + deckID
}

// printURL switches a viewer URL into print-pdf mode.
func printURL(viewerURL string) string {
	if strings.Contains(viewerURL, "?") {
		return viewerURL + "&print-pdf"
	}
	return viewerURL + "?print-pdf"
}

// joinCSS concatenates stylesheets, skipping empties. User CSS comes
// last so it can override the built-in rules.
func joinCSS(parts ...string) string {
	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			joined = append(joined, p)
		}
	}
	return strings.Join(joined, "\n")
}
