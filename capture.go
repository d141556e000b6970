package deck2pptx

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-deck2pptx/internal/process"
)

// captureSession abstracts the live browser session over the deck viewer
// to enable testing without a browser. A session serves exactly one
// conversion job: all operations are sequential, and the current slide is
// mutable page state shared by SelectSlide and the capture calls.
type captureSession interface {
	Navigate(ctx context.Context, viewerURL string) error
	SlideCount(ctx context.Context) (int, error)
	SelectSlide(ctx context.Context, index int) error
	CaptureRegion(ctx context.Context, selector string) ([]byte, error)
	CaptureViewport(ctx context.Context) ([]byte, error)
	PrintPDF(ctx context.Context, opts *pdfOptions) ([]byte, error)
	Close() error
}

// Viewer wait bounds.
const (
	readySelector  = ".reveal.ready"
	readyTimeout   = 10 * time.Second
	settleDelay    = 500 * time.Millisecond
	quiesceTimeout = 5 * time.Second
	quiesceIdle    = 300 * time.Millisecond
)

// styleInjectJS appends a stylesheet to the live page.
const styleInjectJS = `(css) => {
	const style = document.createElement('style');
	style.textContent = css;
	document.head.appendChild(style);
}`

// sessionConfig holds browser session parameters, filled by the Converter.
type sessionConfig struct {
	browserBin  string
	viewportW   int
	viewportH   int
	deviceScale float64
	injectCSS   string        // applied once after the viewer is ready
	readyWait   time.Duration // zero means readyTimeout
	logger      *log.Logger
}

// rodSession implements captureSession using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodSession struct {
	cfg      sessionConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	slides   int // cached slide count, 0 until queried
}

// newRodSession creates a rodSession with the given configuration.
func newRodSession(cfg sessionConfig) *rodSession {
	return &rodSession{cfg: cfg}
}

// ensureBrowser lazily connects to the browser.
func (s *rodSession) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	// Configure launcher
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := s.cfg.browserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.launcher = l

	s.browser = rod.New().ControlURL(u)
	if err := s.browser.Connect(); err != nil {
		s.killBrowserProcess()
		s.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// killBrowserProcess force-kills the launched browser and any children it
// left behind. Chrome can orphan renderer processes when the devtools
// connection dies mid-session.
func (s *rodSession) killBrowserProcess() {
	if s.launcher == nil {
		return
	}
	pid := s.launcher.PID()
	s.launcher.Kill()
	if pid > 0 {
		process.KillProcessGroup(pid)
	}
	s.launcher = nil
}

// Close releases the page and browser. Safe to call more than once and
// before Navigate.
func (s *rodSession) Close() error {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.killBrowserProcess()
	return err
}

// Navigate loads the deck viewer, waits for the renderer-ready marker, and
// injects the capture stylesheet. A non-success document response or a
// missed ready marker is fatal to the job.
func (s *rodSession) Navigate(ctx context.Context, viewerURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureBrowser(); err != nil {
		return err
	}

	if s.page == nil {
		page, err := s.browser.Page(proto.TargetCreateTarget{URL: ""})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPageCreate, err)
		}
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             s.cfg.viewportW,
			Height:            s.cfg.viewportH,
			DeviceScaleFactor: s.cfg.deviceScale,
			Mobile:            false,
		}).Call(page); err != nil {
			_ = page.Close()
			return fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
		}
		s.page = page
	}

	page := s.page.Context(ctx)

	// Subscribe before navigating so the document response is not missed.
	var resp proto.NetworkResponseReceived
	waitResp := page.WaitEvent(&resp)

	if err := page.Navigate(viewerURL); err != nil {
		return fmt.Errorf("%w: %v", ErrDeckLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	waitResp()
	if resp.Type == proto.NetworkResourceTypeDocument && resp.Response.Status >= 400 {
		return fmt.Errorf("%w: viewer returned HTTP %d for %s", ErrDeckLoad, resp.Response.Status, viewerURL)
	}

	readyWait := readyTimeout
	if s.cfg.readyWait > 0 {
		readyWait = s.cfg.readyWait
	}
	if _, err := page.Timeout(readyWait).Element(readySelector); err != nil {
		return fmt.Errorf("%w: viewer not ready within %s: %v", ErrRenderTimeout, readyWait, err)
	}

	if s.cfg.injectCSS != "" {
		if _, err := page.Eval(styleInjectJS, s.cfg.injectCSS); err != nil {
			return fmt.Errorf("%w: injecting capture stylesheet: %v", ErrPageLoad, err)
		}
	}

	s.slides = 0
	return nil
}

// SlideCount returns the total slide count reported by the viewer.
func (s *rodSession) SlideCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.page == nil {
		return 0, fmt.Errorf("%w: session has no page, navigate first", ErrInternal)
	}
	if s.slides > 0 {
		return s.slides, nil
	}

	obj, err := s.page.Context(ctx).Eval(`() => Reveal.getTotalSlides()`)
	if err != nil {
		return 0, fmt.Errorf("%w: querying slide count: %v", ErrPageLoad, err)
	}
	s.slides = obj.Value.Int()
	return s.slides, nil
}

// SelectSlide displays the slide at index without a transition, then waits
// for the slide to settle and its network activity to quiesce. The quiesce
// wait expiring is not an error; charts that keep polling would otherwise
// stall every capture.
func (s *rodSession) SelectSlide(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.page == nil {
		return fmt.Errorf("%w: session has no page, navigate first", ErrInternal)
	}

	total, err := s.SlideCount(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= total {
		return fmt.Errorf("%w: index %d of %d", ErrSlideNotFound, index, total)
	}

	page := s.page.Context(ctx)
	if _, err := page.Eval(`(i) => Reveal.slide(i, 0)`, index); err != nil {
		return fmt.Errorf("%w: selecting slide %d: %v", ErrSlideNotFound, index, err)
	}

	select {
	case <-time.After(settleDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	wait := page.Timeout(quiesceTimeout).WaitRequestIdle(quiesceIdle, nil, nil, nil)
	wait()
	return ctx.Err()
}

// CaptureRegion screenshots the element matching selector on the current
// slide. A missing element is a capture miss, not an error: the caller
// receives nil bytes and the slide degrades to its remaining content.
func (s *rodSession) CaptureRegion(ctx context.Context, selector string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.page == nil {
		return nil, fmt.Errorf("%w: session has no page, navigate first", ErrInternal)
	}

	page := s.page.Context(ctx)
	has, el, err := page.Has(selector)
	if err != nil {
		s.warnf("capture miss: querying %q: %v", selector, err)
		return nil, nil
	}
	if !has {
		s.warnf("capture miss: no element for %q", selector)
		return nil, nil
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		s.warnf("capture miss: screenshot of %q: %v", selector, err)
		return nil, nil
	}
	return data, nil
}

// CaptureViewport screenshots the visible viewport of the current slide.
// Unlike a region capture, a viewport capture failure is fatal: the
// screenshot variant has nothing else to put on the slide.
func (s *rodSession) CaptureViewport(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.page == nil {
		return nil, fmt.Errorf("%w: session has no page, navigate first", ErrInternal)
	}

	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: viewport screenshot: %v", ErrCaptureFailed, err)
	}
	return data, nil
}

// PrintPDF renders the current page through the browser's print pipeline.
func (s *rodSession) PrintPDF(ctx context.Context, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.page == nil {
		return nil, fmt.Errorf("%w: session has no page, navigate first", ErrInternal)
	}

	reader, err := s.page.Context(ctx).PDF(buildPrintOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

func (s *rodSession) warnf(format string, args ...any) {
	if s.cfg.logger != nil {
		s.cfg.logger.Printf(format, args...)
	}
}
