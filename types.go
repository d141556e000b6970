package deck2pptx

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Aspect ratio constants.
const (
	Aspect16x9 = "16:9"
	Aspect4x3  = "4:3"
)

// Quality constants. Quality trades capture resolution against file size.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// Variant constants. The native variant reconstructs slides as text boxes
// plus captured chart/diagram regions; the screenshot variant embeds one
// full-viewport capture per slide.
const (
	VariantNative     = "native"
	VariantScreenshot = "screenshot"
)

// Layout policy constants for slides with unrecognized layout tags.
// LayoutWarn emits the slide with background only; LayoutReject fails
// the whole job.
const (
	LayoutWarn   = "warn"
	LayoutReject = "reject"
)

// MaxDeckJSONSize caps deck documents at 4MB.
const MaxDeckJSONSize = 4 << 20

// Presentation is a deck document: an ordered list of slides.
type Presentation struct {
	Name   string  `json:"name,omitempty"`
	Slides []Slide `json:"slides"`
}

// Slide is one deck slide: a layout tag, an optional background color,
// and semantic content fields keyed by field name.
type Slide struct {
	Layout          string            `json:"layout"`
	BackgroundColor string            `json:"background_color,omitempty"`
	Content         map[string]string `json:"content"`
}

// Field returns the named content field, or "" when absent.
func (s *Slide) Field(name string) string {
	return s.Content[name]
}

// ParsePresentation parses deck JSON, enforcing the size cap.
func ParsePresentation(data []byte) (*Presentation, error) {
	if len(data) > MaxDeckJSONSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrDeckTooLarge, len(data), MaxDeckJSONSize)
	}
	var p Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parsing deck JSON: %v", ErrInvalidInput, err)
	}
	return &p, nil
}

// Input contains conversion parameters.
type Input struct {
	DeckID    string        // presentation identifier (required unless Deck or DeckJSON set)
	BaseURL   string        // renderer service base URL, e.g. "http://localhost:3000"
	Deck      *Presentation // pre-parsed deck document (optional, skips fetching)
	DeckJSON  []byte        // raw deck JSON (optional, skips fetching)
	ViewerURL string        // overrides the BaseURL-derived viewer address (optional)
	Notes     []string      // per-slide speaker notes by slide index (optional)
}

// isValidAspectRatio checks if aspect is a known ratio.
func isValidAspectRatio(aspect string) bool {
	switch aspect {
	case Aspect16x9, Aspect4x3:
		return true
	}
	return false
}

// isValidQuality checks if quality is a known level (case-insensitive).
func isValidQuality(quality string) bool {
	switch strings.ToLower(quality) {
	case QualityHigh, QualityMedium, QualityLow:
		return true
	}
	return false
}

// isValidVariant checks if variant is a known value (case-insensitive).
func isValidVariant(variant string) bool {
	switch strings.ToLower(variant) {
	case VariantNative, VariantScreenshot:
		return true
	}
	return false
}

// isValidLayoutPolicy checks if policy is a known value (case-insensitive).
func isValidLayoutPolicy(policy string) bool {
	switch strings.ToLower(policy) {
	case LayoutWarn, LayoutReject:
		return true
	}
	return false
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout      time.Duration
	variant      string
	quality      string
	aspect       string
	layoutPolicy string
	browserBin   string
	assetPath    string
	injectCSS    string
	viewportW    int
	viewportH    int
	deviceScale  float64
	logger       *log.Logger

	// Stylesheets resolved by NewConverter from the asset loader.
	captureCSS string
	printCSS   string
}

// Defaults applied by NewConverter.
const (
	defaultTimeout     = 2 * time.Minute
	defaultViewportW   = 1920
	defaultViewportH   = 1080
	defaultDeviceScale = 2.0
)

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("deck2pptx: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithVariant selects the conversion variant: VariantNative or
// VariantScreenshot. Validated by NewConverter.
func WithVariant(variant string) Option {
	return func(c *Converter) {
		c.cfg.variant = variant
	}
}

// WithQuality selects the capture quality level: QualityHigh,
// QualityMedium, or QualityLow. Validated by NewConverter.
func WithQuality(quality string) Option {
	return func(c *Converter) {
		c.cfg.quality = quality
	}
}

// WithAspectRatio selects the output canvas shape: Aspect16x9 or
// Aspect4x3. Validated by NewConverter.
func WithAspectRatio(aspect string) Option {
	return func(c *Converter) {
		c.cfg.aspect = aspect
	}
}

// WithLayoutPolicy selects handling of unrecognized layout tags:
// LayoutWarn or LayoutReject. Validated by NewConverter.
func WithLayoutPolicy(policy string) Option {
	return func(c *Converter) {
		c.cfg.layoutPolicy = policy
	}
}

// WithBrowserBin sets the browser binary path, overriding auto-detection
// and the ROD_BROWSER_BIN environment variable.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithInjectCSS adds extra CSS injected into the viewer page before
// capturing, after the built-in chrome-hiding stylesheet.
func WithInjectCSS(css string) Option {
	return func(c *Converter) {
		c.cfg.injectCSS = css
	}
}

// WithAssetPath sets a directory of custom stylesheets overriding the
// built-in ones. Validated by NewConverter.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithViewport sets the capture viewport in pixels.
// Panics if width or height is not positive (programmer error).
func WithViewport(width, height int) Option {
	if width <= 0 || height <= 0 {
		panic("deck2pptx: WithViewport dimensions must be positive")
	}
	return func(c *Converter) {
		c.cfg.viewportW = width
		c.cfg.viewportH = height
	}
}

// WithDeviceScale sets the capture device scale factor.
// Panics if scale is not positive (programmer error).
func WithDeviceScale(scale float64) Option {
	if scale <= 0 {
		panic("deck2pptx: WithDeviceScale factor must be positive")
	}
	return func(c *Converter) {
		c.cfg.deviceScale = scale
	}
}

// WithLogger sets the logger for non-fatal warnings (capture misses,
// unrecognized layouts, capture geometry mismatches).
// Panics if l is nil (programmer error).
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("deck2pptx: WithLogger requires a non-nil logger")
	}
	return func(c *Converter) {
		c.cfg.logger = l
	}
}
