package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// serviceFlags holds deck service flags.
type serviceFlags struct {
	baseURL string
}

// renderFlags holds conversion rendering flags.
type renderFlags struct {
	format       string
	variant      string
	quality      string
	aspectRatio  string
	layoutPolicy string
}

// browserFlags holds browser-related flags.
type browserFlags struct {
	bin            string
	viewportWidth  int
	viewportHeight int
	deviceScale    float64
}

// assetFlags holds asset and stylesheet flags.
type assetFlags struct {
	assetPath string
	injectCSS string
}

// outputFlags holds output naming flags.
type outputFlags struct {
	output  string
	pattern string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	service   serviceFlags
	render    renderFlags
	browser   browserFlags
	assets    assetFlags
	out       outputFlags
	workers   int
	timeout   string
	notesFile string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common     commonFlags
	service    serviceFlags
	render     renderFlags
	browser    browserFlags
	assets     assetFlags
	addr       string
	workers    int
	timeout    string
	corsOrigin string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addServiceFlags adds deck service flags to a FlagSet.
func addServiceFlags(fs *flag.FlagSet, f *serviceFlags) {
	fs.StringVarP(&f.baseURL, "base-url", "b", "", "deck service root, e.g. http://localhost:3000")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.variant, "variant", "", "PPTX variant: native, screenshot")
	fs.StringVar(&f.quality, "quality", "", "capture quality: high, medium, low")
	fs.StringVar(&f.aspectRatio, "aspect", "", "slide aspect ratio: 16:9, 4:3")
	fs.StringVar(&f.layoutPolicy, "layout-policy", "", "unknown layout handling: warn, reject")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium binary path")
	fs.IntVar(&f.viewportWidth, "viewport-width", 0, "capture viewport width in pixels")
	fs.IntVar(&f.viewportHeight, "viewport-height", 0, "capture viewport height in pixels")
	fs.Float64Var(&f.deviceScale, "device-scale", 0, "device scale factor (0 = default)")
}

// addAssetFlags adds asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.StringVar(&f.injectCSS, "inject-css", "", "extra CSS file injected into the viewer")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.out.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.out.pattern, "pattern", "", "output filename pattern (default presentation-{id}.{ext})")
	fs.StringVarP(&f.render.format, "format", "f", "", "output format: pptx, pdf")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.notesFile, "notes-file", "", "JSON file with per-slide speaker notes")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addServiceFlags(fs, &f.service)
	addRenderFlags(fs, &f.render)
	addBrowserFlags(fs, &f.browser)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8010)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent conversions (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.corsOrigin, "cors-origin", "", "allowed CORS origins, comma-separated (* for any)")

	addCommonFlags(fs, &f.common)
	addServiceFlags(fs, &f.service)
	addRenderFlags(fs, &f.render)
	addBrowserFlags(fs, &f.browser)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printServeUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}
