package deck2pptx

import (
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// Print-to-PDF paper dimensions in inches. The deck renders at a 16:9
// aspect, so the page is sized to match and the margins are zeroed.
const (
	paperLongInches  = 16.0
	paperShortInches = 9.0
)

// printReadyTimeout and printSettleDelay pace the print-pdf navigation:
// the viewer lays out every slide in document flow for printing, which
// takes longer than the single-slide interactive mode.
const (
	printReadyTimeout = 15 * time.Second
	printSettleDelay  = 2 * time.Second
)

// pdfOptions control browser print-to-PDF output.
type pdfOptions struct {
	landscape       bool
	printBackground bool
	scale           float64
}

// defaultPDFOptions returns print options for a quality level.
func defaultPDFOptions(quality string) *pdfOptions {
	return &pdfOptions{
		landscape:       true,
		printBackground: true,
		scale:           qualityScale(quality),
	}
}

// buildPrintOptions constructs proto.PagePrintToPDF from pdfOptions.
func buildPrintOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	landscape := true
	printBackground := true
	scale := 1.0

	if opts != nil {
		landscape = opts.landscape
		printBackground = opts.printBackground
		if opts.scale > 0 {
			scale = opts.scale
		}
	}

	paperWidth := paperLongInches
	paperHeight := paperShortInches
	if !landscape {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	return &proto.PagePrintToPDF{
		Landscape:         landscape,
		PrintBackground:   printBackground,
		PreferCSSPageSize: true,
		Scale:             floatPtr(scale),
		PaperWidth:        floatPtr(paperWidth),
		PaperHeight:       floatPtr(paperHeight),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
	}
}

// qualityScale maps a quality level to the Chrome print scale factor.
func qualityScale(quality string) float64 {
	switch quality {
	case QualityMedium:
		return 0.85
	case QualityLow:
		return 0.7
	default:
		return 1.0
	}
}

// qualityViewport maps a quality level to the browser viewport used for
// print-pdf rendering. The interactive capture path always renders at
// full resolution; only the print path trades pixels for speed.
func qualityViewport(quality string) (width, height int) {
	switch quality {
	case QualityMedium:
		return 1440, 810
	case QualityLow:
		return 960, 540
	default:
		return 1920, 1080
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
