package deck2pptx

import (
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestParsePresentation - Deck JSON parsing and the size cap
// ---------------------------------------------------------------------------

func TestParsePresentation(t *testing.T) {
	t.Parallel()

	valid := []byte(`{"name":"Launch","slides":[{"layout":"L01","background_color":"#ffffff","content":{"slide_title":"Hello"}}]}`)

	atCap := make([]byte, MaxDeckJSONSize)
	for i := range atCap {
		atCap[i] = ' '
	}
	copy(atCap, valid)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "valid deck", data: valid},
		{name: "empty slides", data: []byte(`{"slides":[]}`)},
		{name: "at the size cap", data: atCap},
		{name: "over the size cap", data: make([]byte, MaxDeckJSONSize+1), wantErr: ErrDeckTooLarge},
		{name: "malformed json", data: []byte(`{"slides":`), wantErr: ErrInvalidInput},
		{name: "wrong shape", data: []byte(`{"slides":"nope"}`), wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deck, err := ParsePresentation(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePresentation() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePresentation() error = %v", err)
			}
			if deck == nil {
				t.Fatal("ParsePresentation() returned nil deck")
			}
		})
	}
}

func TestParsePresentation_Fields(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"name": "Launch",
		"slides": [
			{
				"layout": "L02",
				"background_color": "#0f172a",
				"content": {"slide_title": "Hello", "element_2": "Right column"}
			},
			{"layout": "L01", "content": {}}
		]
	}`)

	deck, err := ParsePresentation(data)
	if err != nil {
		t.Fatalf("ParsePresentation() error = %v", err)
	}
	if deck.Name != "Launch" {
		t.Errorf("Name = %q, want %q", deck.Name, "Launch")
	}
	if len(deck.Slides) != 2 {
		t.Fatalf("Slides length = %d, want 2", len(deck.Slides))
	}

	first := deck.Slides[0]
	if first.Layout != "L02" {
		t.Errorf("Layout = %q, want %q", first.Layout, "L02")
	}
	if first.BackgroundColor != "#0f172a" {
		t.Errorf("BackgroundColor = %q, want %q", first.BackgroundColor, "#0f172a")
	}
	if got := first.Field("slide_title"); got != "Hello" {
		t.Errorf(`Field("slide_title") = %q, want %q`, got, "Hello")
	}
	if got := first.Field("element_9"); got != "" {
		t.Errorf(`Field("element_9") = %q, want ""`, got)
	}
}

// ---------------------------------------------------------------------------
// TestSlideField - Lookup on a nil content map
// ---------------------------------------------------------------------------

func TestSlideField(t *testing.T) {
	t.Parallel()

	s := Slide{Layout: "L01"}
	if got := s.Field("slide_title"); got != "" {
		t.Errorf(`Field("slide_title") = %q, want "" for nil content`, got)
	}
}

// ---------------------------------------------------------------------------
// Validator Tables
// ---------------------------------------------------------------------------

func TestIsValidAspectRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		aspect string
		want   bool
	}{
		{"16:9", true},
		{"4:3", true},
		{"16:10", false},
		{"16:9 ", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isValidAspectRatio(tt.aspect); got != tt.want {
			t.Errorf("isValidAspectRatio(%q) = %v, want %v", tt.aspect, got, tt.want)
		}
	}
}

func TestIsValidQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality string
		want    bool
	}{
		{"high", true},
		{"HIGH", true},
		{"Medium", true},
		{"low", true},
		{"ultra", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isValidQuality(tt.quality); got != tt.want {
			t.Errorf("isValidQuality(%q) = %v, want %v", tt.quality, got, tt.want)
		}
	}
}

func TestIsValidVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		variant string
		want    bool
	}{
		{"native", true},
		{"Screenshot", true},
		{"pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isValidVariant(tt.variant); got != tt.want {
			t.Errorf("isValidVariant(%q) = %v, want %v", tt.variant, got, tt.want)
		}
	}
}

func TestIsValidLayoutPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy string
		want   bool
	}{
		{"warn", true},
		{"REJECT", true},
		{"skip", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isValidLayoutPolicy(tt.policy); got != tt.want {
			t.Errorf("isValidLayoutPolicy(%q) = %v, want %v", tt.policy, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestOptionsApply - Stored option values reach the config
// ---------------------------------------------------------------------------

func TestOptionsApply(t *testing.T) {
	t.Parallel()

	c, err := NewConverter(
		WithTimeout(5*time.Minute),
		WithBrowserBin("/usr/bin/chromium"),
		WithViewport(1280, 720),
		WithDeviceScale(1.0),
		WithInjectCSS(".x{}"),
	)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	if c.cfg.timeout != 5*time.Minute {
		t.Errorf("timeout = %v, want %v", c.cfg.timeout, 5*time.Minute)
	}
	if c.cfg.browserBin != "/usr/bin/chromium" {
		t.Errorf("browserBin = %q, want %q", c.cfg.browserBin, "/usr/bin/chromium")
	}
	if c.cfg.viewportW != 1280 || c.cfg.viewportH != 720 {
		t.Errorf("viewport = %dx%d, want 1280x720", c.cfg.viewportW, c.cfg.viewportH)
	}
	if c.cfg.deviceScale != 1.0 {
		t.Errorf("deviceScale = %v, want 1.0", c.cfg.deviceScale)
	}
	if c.cfg.injectCSS != ".x{}" {
		t.Errorf("injectCSS = %q, want %q", c.cfg.injectCSS, ".x{}")
	}
}

// ---------------------------------------------------------------------------
// TestOptionPanics - Programmer errors panic at option construction
// ---------------------------------------------------------------------------

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"WithTimeout zero", func() { WithTimeout(0) }},
		{"WithTimeout negative", func() { WithTimeout(-time.Second) }},
		{"WithViewport zero width", func() { WithViewport(0, 1080) }},
		{"WithViewport zero height", func() { WithViewport(1920, 0) }},
		{"WithDeviceScale zero", func() { WithDeviceScale(0) }},
		{"WithLogger nil", func() { WithLogger(nil) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
