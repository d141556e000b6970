package deck2pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
)

// Notes:
// - Tests gridAssembler against mockSession: happy path, capture miss,
//   unknown layout policies, invalid background, aspect drift warning
// - Tests screenshotAssembler full-bleed output and quality scaling
// - Tests speaker notes attachment

// ---------------------------------------------------------------------------
// Compile-Time Interface Checks
// ---------------------------------------------------------------------------

var (
	_ assembler = (*gridAssembler)(nil)
	_ assembler = (*screenshotAssembler)(nil)
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// unzipParts reads a generated package into part name -> content.
func unzipParts(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading package: %v", err)
	}

	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

// deckFixture returns a two-slide deck exercising captures, backgrounds,
// and the footer rule.
func deckFixture() *Presentation {
	return &Presentation{
		Name: "Acme All Hands",
		Slides: []Slide{
			{
				Layout:          layoutL01,
				BackgroundColor: "#0f172a",
				Content: map[string]string{
					fieldTitle:            "Q3 Results",
					"element_1":           "A quarter in review",
					"element_3":           "Takeaways below",
					fieldPresentationName: "Acme All Hands",
				},
			},
			{
				Layout: layoutL02,
				Content: map[string]string{
					fieldTitle:  "Pipeline",
					"element_2": "Details on the right",
				},
			},
		},
	}
}

func newTestGridAssembler(logger *log.Logger) *gridAssembler {
	return newGridAssembler(gridLayoutRenderer{}, Aspect16x9, LayoutWarn, logger)
}

// ---------------------------------------------------------------------------
// TestGridAssembler_Assemble - Native reconstruction happy path
// ---------------------------------------------------------------------------

func TestGridAssembler_Assemble(t *testing.T) {
	t.Parallel()

	chartPNG := encodePNG(t, 300, 100)
	diagramPNG := encodePNG(t, 210, 120)
	session := &mockSession{
		Slides: 2,
		Regions: map[string][]byte{
			`[data-slide-index="0"] .chart-container`:   chartPNG,
			`[data-slide-index="1"] .diagram-container`: diagramPNG,
		},
	}

	a := newTestGridAssembler(nil)
	out, err := a.Assemble(context.Background(), deckFixture(), []string{"Speak slowly."}, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := unzipParts(t, out)

	slide1, ok := parts["ppt/slides/slide1.xml"]
	if !ok {
		t.Fatal("missing ppt/slides/slide1.xml")
	}
	if !strings.Contains(slide1, "Q3 Results") {
		t.Error("slide 1 missing title text")
	}
	if !strings.Contains(slide1, "<p:bg>") || !strings.Contains(slide1, `val="0F172A"`) {
		t.Error("slide 1 missing background fill")
	}
	if !strings.Contains(slide1, "r:embed") {
		t.Error("slide 1 missing embedded capture")
	}
	if !strings.Contains(slide1, "Acme All Hands") {
		t.Error("slide 1 missing footer")
	}

	slide2, ok := parts["ppt/slides/slide2.xml"]
	if !ok {
		t.Fatal("missing ppt/slides/slide2.xml")
	}
	if !strings.Contains(slide2, "Pipeline") {
		t.Error("slide 2 missing title text")
	}
	if strings.Contains(slide2, "Acme All Hands") {
		t.Error("slide 2 has a footer without a presentation name")
	}

	if got := parts["ppt/media/image1.png"]; got != string(chartPNG) {
		t.Error("chart capture bytes not embedded as image1")
	}
	if got := parts["ppt/media/image2.png"]; got != string(diagramPNG) {
		t.Error("diagram capture bytes not embedded as image2")
	}

	if !strings.Contains(parts["ppt/notesSlides/notesSlide1.xml"], "Speak slowly.") {
		t.Error("missing speaker notes on slide 1")
	}
	if _, ok := parts["ppt/notesSlides/notesSlide2.xml"]; ok {
		t.Error("unexpected notes part for slide 2")
	}

	wantSelected := []int{0, 1}
	if len(session.Selected) != len(wantSelected) {
		t.Fatalf("selected slides = %v, want %v", session.Selected, wantSelected)
	}
	for i, idx := range wantSelected {
		if session.Selected[i] != idx {
			t.Errorf("selected[%d] = %d, want %d", i, session.Selected[i], idx)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGridAssembler_CaptureMiss - Missing region degrades, never fails
// ---------------------------------------------------------------------------

func TestGridAssembler_CaptureMiss(t *testing.T) {
	t.Parallel()

	session := &mockSession{Slides: 2}

	a := newTestGridAssembler(nil)
	out, err := a.Assemble(context.Background(), deckFixture(), nil, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := unzipParts(t, out)
	if _, ok := parts["ppt/media/image1.png"]; ok {
		t.Error("unexpected media part after capture miss")
	}

	slide1 := parts["ppt/slides/slide1.xml"]
	if strings.Contains(slide1, "r:embed") {
		t.Error("slide 1 embeds a picture after capture miss")
	}
	if !strings.Contains(slide1, "Q3 Results") {
		t.Error("slide 1 lost its text boxes after capture miss")
	}
}

// ---------------------------------------------------------------------------
// TestGridAssembler_UnknownLayout - Policy decides warn or reject
// ---------------------------------------------------------------------------

func TestGridAssembler_UnknownLayout(t *testing.T) {
	t.Parallel()

	deck := &Presentation{
		Slides: []Slide{
			{
				Layout:          "L99",
				BackgroundColor: "#ffffff",
				Content:         map[string]string{fieldTitle: "Lost"},
			},
		},
	}

	t.Run("warn renders background only", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		a := newGridAssembler(gridLayoutRenderer{}, Aspect16x9, LayoutWarn, log.New(&logs, "", 0))
		out, err := a.Assemble(context.Background(), deck, nil, &mockSession{Slides: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		slide1 := unzipParts(t, out)["ppt/slides/slide1.xml"]
		if !strings.Contains(slide1, "<p:bg>") {
			t.Error("expected background fill")
		}
		if strings.Contains(slide1, "Lost") {
			t.Error("unknown layout should not render content")
		}
		if !strings.Contains(logs.String(), `unknown layout "L99"`) {
			t.Errorf("expected unknown layout warning, got %q", logs.String())
		}
	})

	t.Run("reject fails the job", func(t *testing.T) {
		t.Parallel()

		a := newGridAssembler(gridLayoutRenderer{}, Aspect16x9, LayoutReject, nil)
		_, err := a.Assemble(context.Background(), deck, nil, &mockSession{Slides: 1})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, ErrUnsupportedLayout) {
			t.Errorf("error = %v, want %v", err, ErrUnsupportedLayout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestGridAssembler_InvalidBackground - Bad hex is skipped with a warning
// ---------------------------------------------------------------------------

func TestGridAssembler_InvalidBackground(t *testing.T) {
	t.Parallel()

	deck := &Presentation{
		Slides: []Slide{
			{
				Layout:          layoutL01,
				BackgroundColor: "#GGHHII",
				Content:         map[string]string{fieldTitle: "Still Here"},
			},
		},
	}

	var logs bytes.Buffer
	a := newTestGridAssembler(log.New(&logs, "", 0))
	out, err := a.Assemble(context.Background(), deck, nil, &mockSession{Slides: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slide1 := unzipParts(t, out)["ppt/slides/slide1.xml"]
	if strings.Contains(slide1, "<p:bg>") {
		t.Error("invalid background color should not produce a fill")
	}
	if !strings.Contains(slide1, "Still Here") {
		t.Error("slide content missing")
	}
	if !strings.Contains(logs.String(), "skipping background") {
		t.Errorf("expected background warning, got %q", logs.String())
	}
}

// ---------------------------------------------------------------------------
// TestGridAssembler_SelectSlideError - Session failures are fatal
// ---------------------------------------------------------------------------

func TestGridAssembler_SelectSlideError(t *testing.T) {
	t.Parallel()

	session := &mockSession{Slides: 1}

	a := newTestGridAssembler(nil)
	_, err := a.Assemble(context.Background(), deckFixture(), nil, session)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrSlideNotFound) {
		t.Errorf("error = %v, want %v", err, ErrSlideNotFound)
	}
}

// ---------------------------------------------------------------------------
// TestGridAssembler_ContextCanceled - Cancellation aborts assembly
// ---------------------------------------------------------------------------

func TestGridAssembler_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestGridAssembler(nil)
	_, err := a.Assemble(ctx, deckFixture(), nil, &mockSession{Slides: 2})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

// ---------------------------------------------------------------------------
// TestGridAssembler_AspectDrift - Mismatched capture aspect warns
// ---------------------------------------------------------------------------

func TestGridAssembler_AspectDrift(t *testing.T) {
	t.Parallel()

	deck := &Presentation{
		Slides: []Slide{
			{
				Layout:  layoutL01,
				Content: map[string]string{fieldTitle: "Charts"},
			},
		},
	}

	tests := []struct {
		name     string
		png      func(t *testing.T) []byte
		wantWarn bool
	}{
		{
			// Chart region (2,32,5,15) is 3:1.
			name:     "matching aspect stays quiet",
			png:      func(t *testing.T) []byte { return encodePNG(t, 300, 100) },
			wantWarn: false,
		},
		{
			name:     "square capture in a wide region warns",
			png:      func(t *testing.T) []byte { return encodePNG(t, 100, 100) },
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			session := &mockSession{
				Slides: 1,
				Regions: map[string][]byte{
					`[data-slide-index="0"] .chart-container`: tt.png(t),
				},
			}

			var logs bytes.Buffer
			a := newTestGridAssembler(log.New(&logs, "", 0))
			if _, err := a.Assemble(context.Background(), deck, nil, session); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			gotWarn := strings.Contains(logs.String(), "differs from region aspect")
			if gotWarn != tt.wantWarn {
				t.Errorf("aspect warning = %v, want %v (logs: %q)", gotWarn, tt.wantWarn, logs.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestScreenshotAssembler_Assemble - Full-bleed capture per slide
// ---------------------------------------------------------------------------

func TestScreenshotAssembler_Assemble(t *testing.T) {
	t.Parallel()

	session := &mockSession{
		Slides:   2,
		Viewport: encodePNG(t, 64, 36),
	}

	a := newScreenshotAssembler(Aspect16x9, QualityLow)
	out, err := a.Assemble(context.Background(), deckFixture(), []string{"", "Wrap up."}, session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := unzipParts(t, out)

	for _, name := range []string{"ppt/media/image1.png", "ppt/media/image2.png"} {
		data, ok := parts[name]
		if !ok {
			t.Fatalf("missing %s", name)
		}
		w, h, err := pngDimensions([]byte(data))
		if err != nil {
			t.Fatalf("decoding %s: %v", name, err)
		}
		if w != 32 || h != 18 {
			t.Errorf("%s dimensions = %dx%d, want 32x18 after low quality scaling", name, w, h)
		}
	}

	slide1 := parts["ppt/slides/slide1.xml"]
	if !strings.Contains(slide1, `<a:off x="0" y="0"/>`) || !strings.Contains(slide1, `<a:ext cx="9144000" cy="5143500"/>`) {
		t.Error("slide 1 picture does not fill the canvas")
	}

	if _, ok := parts["ppt/notesSlides/notesSlide1.xml"]; ok {
		t.Error("unexpected notes part for empty entry")
	}
	if !strings.Contains(parts["ppt/notesSlides/notesSlide2.xml"], "Wrap up.") {
		t.Error("missing speaker notes on slide 2")
	}
}

// ---------------------------------------------------------------------------
// TestScreenshotAssembler_ViewportError - Capture failure is fatal
// ---------------------------------------------------------------------------

func TestScreenshotAssembler_ViewportError(t *testing.T) {
	t.Parallel()

	session := &mockSession{
		Slides:      2,
		ViewportErr: ErrCaptureFailed,
	}

	a := newScreenshotAssembler(Aspect16x9, QualityHigh)
	_, err := a.Assemble(context.Background(), deckFixture(), nil, session)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrCaptureFailed) {
		t.Errorf("error = %v, want %v", err, ErrCaptureFailed)
	}
}
