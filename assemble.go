package deck2pptx

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/alnah/go-deck2pptx/internal/pptx"
)

// assembler builds the output document for a deck using an open capture
// session. Implementations must leave the session usable afterwards; the
// caller owns its lifecycle.
type assembler interface {
	Assemble(ctx context.Context, deck *Presentation, notes []string, session captureSession) ([]byte, error)
}

// aspectDriftTolerance bounds the relative difference between a capture's
// pixel aspect and its target rectangle before a warning is logged.
const aspectDriftTolerance = 0.02

// gridAssembler reconstructs slides natively: render instructions are
// mapped onto the grid canvas as editable text boxes and region captures.
type gridAssembler struct {
	renderer layoutRenderer
	mapper   gridMapper
	policy   string
	logger   *log.Logger
}

// newGridAssembler creates a gridAssembler for the given canvas aspect and
// unknown-layout policy.
func newGridAssembler(renderer layoutRenderer, aspect, policy string, logger *log.Logger) *gridAssembler {
	return &gridAssembler{
		renderer: renderer,
		mapper:   newGridMapper(aspect),
		policy:   policy,
		logger:   logger,
	}
}

// Assemble renders each deck slide to instructions and places them on one
// output slide apiece. Region captures are resolved through the session;
// a capture miss degrades that element only. Speaker notes are attached by
// slide index in a second pass.
func (a *gridAssembler) Assemble(ctx context.Context, deck *Presentation, notes []string, session captureSession) ([]byte, error) {
	doc := pptx.New(deck.Name, a.mapper.width, a.mapper.height, time.Now().UTC())

	for i, slide := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		instrs, ok := a.renderer.Render(slide, i)
		if !ok {
			if a.policy == LayoutReject {
				return nil, fmt.Errorf("%w: slide %d layout %q", ErrUnsupportedLayout, i, slide.Layout)
			}
			a.warnf("slide %d: unknown layout %q, rendering background only", i, slide.Layout)
		}

		out := doc.AddSlide()
		selected := false

		for _, instr := range instrs {
			switch v := instr.(type) {
			case backgroundInstr:
				c, err := pptx.ParseColor(v.color)
				if err != nil {
					a.warnf("slide %d: skipping background: %v", i, err)
					continue
				}
				out.SetBackground(c)

			case textBoxInstr:
				rect, err := a.mapper.Map(v.region)
				if err != nil {
					return nil, fmt.Errorf("%w: slide %d text box: %v", ErrAssembly, i, err)
				}
				c, err := pptx.ParseColor(v.color)
				if err != nil {
					return nil, fmt.Errorf("%w: slide %d text color: %v", ErrAssembly, i, err)
				}
				out.AddTextBox(pptx.TextBox{
					X:      pptx.Inch(rect.Left),
					Y:      pptx.Inch(rect.Top),
					W:      pptx.Inch(rect.Width),
					H:      pptx.Inch(rect.Height),
					Text:   v.text,
					SizePt: v.sizePt,
					Bold:   v.bold,
					Color:  c,
				})

			case imageInstr:
				if !selected {
					if err := session.SelectSlide(ctx, i); err != nil {
						return nil, err
					}
					selected = true
				}
				data, err := session.CaptureRegion(ctx, v.selector)
				if err != nil {
					return nil, err
				}
				if data == nil {
					continue
				}
				rect, err := a.mapper.Map(v.region)
				if err != nil {
					return nil, fmt.Errorf("%w: slide %d image: %v", ErrAssembly, i, err)
				}
				a.checkCaptureAspect(i, v.selector, data, rect)
				out.AddPicture(pptx.Picture{
					X:    pptx.Inch(rect.Left),
					Y:    pptx.Inch(rect.Top),
					W:    pptx.Inch(rect.Width),
					H:    pptx.Inch(rect.Height),
					Data: data,
				})

			default:
				return nil, fmt.Errorf("%w: slide %d: unhandled instruction %T", ErrAssembly, i, instr)
			}
		}
	}

	applyNotes(doc, notes)

	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	return buf.Bytes(), nil
}

// checkCaptureAspect warns when a capture's pixel aspect strays from its
// target rectangle. Browser rounding makes small drift normal; large drift
// means the DOM region and the grid placement disagree and the embedded
// image will stretch visibly.
func (a *gridAssembler) checkCaptureAspect(slide int, selector string, data []byte, rect Rect) {
	w, h, err := pngDimensions(data)
	if err != nil || w == 0 || h == 0 {
		return
	}
	got := float64(w) / float64(h)
	want := rect.Width / rect.Height
	if drift := math.Abs(got-want) / want; drift > aspectDriftTolerance {
		a.warnf("slide %d: capture %q aspect %.3f differs from region aspect %.3f", slide, selector, got, want)
	}
}

func (a *gridAssembler) warnf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// screenshotAssembler builds slides from full-viewport captures, one
// full-bleed picture per slide. No grid reconstruction happens here; the
// output is faithful but not editable.
type screenshotAssembler struct {
	mapper  gridMapper
	quality string
}

// newScreenshotAssembler creates a screenshotAssembler for the given
// canvas aspect and capture quality.
func newScreenshotAssembler(aspect, quality string) *screenshotAssembler {
	return &screenshotAssembler{
		mapper:  newGridMapper(aspect),
		quality: quality,
	}
}

// Assemble captures every slide's viewport and embeds each capture scaled
// to fill the whole canvas. Any capture failure is fatal: a screenshot
// slide has no other content to fall back on.
func (a *screenshotAssembler) Assemble(ctx context.Context, deck *Presentation, notes []string, session captureSession) ([]byte, error) {
	scale := qualityImageScale(a.quality)
	doc := pptx.New(deck.Name, a.mapper.width, a.mapper.height, time.Now().UTC())

	for i := range deck.Slides {
		if err := session.SelectSlide(ctx, i); err != nil {
			return nil, err
		}
		data, err := session.CaptureViewport(ctx)
		if err != nil {
			return nil, err
		}
		data, err = scaleImage(data, scale)
		if err != nil {
			return nil, err
		}

		out := doc.AddSlide()
		out.AddPicture(pptx.Picture{
			W:    pptx.Inch(a.mapper.width),
			H:    pptx.Inch(a.mapper.height),
			Data: data,
		})
	}

	applyNotes(doc, notes)

	var buf bytes.Buffer
	if err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	return buf.Bytes(), nil
}

// applyNotes attaches speaker notes by slide index. Empty entries and
// entries beyond the slide count are skipped.
func applyNotes(doc *pptx.Presentation, notes []string) {
	for i, text := range notes {
		if text == "" || i >= doc.SlideCount() {
			continue
		}
		doc.Slide(i).SetNotes(text)
	}
}
