// Package deck2pptx converts slide decks to PowerPoint using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert a deck, and close when done:
//
//	conv, err := deck2pptx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	deckJSON, err := os.ReadFile("q1-review.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := conv.Convert(ctx, deck2pptx.Input{
//	    DeckID:   "q1-review",
//	    BaseURL:  "http://localhost:3000",
//	    DeckJSON: deckJSON,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("q1-review.pptx", data, 0644)
//
// BaseURL and DeckID name the live viewer the captures come from; the deck
// document itself is passed via Input.Deck or Input.DeckJSON. Use
// ConvertPDF for PDF output.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Input resolution (parse the deck document, derive the viewer URL)
//  2. Layout mapping (slide content placed on the deck's 32x18 grid)
//  3. Region capture via headless Chrome (go-rod) for non-native content
//  4. PPTX assembly (native text and shapes plus captured images)
//
// The native variant reconstructs text and shapes as editable PowerPoint
// objects and rasterizes only the regions that have no PPTX equivalent.
// The screenshot variant captures every slide as a full-frame image.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := deck2pptx.NewConverter(
//	    deck2pptx.WithTimeout(2 * time.Minute),
//	    deck2pptx.WithVariant("screenshot"),
//	    deck2pptx.WithQuality("medium"),
//	    deck2pptx.WithAspectRatio("4:3"),
//	)
//
// Per-conversion parameters are passed via Input:
//
//	data, err := conv.Convert(ctx, deck2pptx.Input{
//	    DeckID:    "q1-review",
//	    BaseURL:   "http://localhost:3000",
//	    DeckJSON:  deckJSON,
//	    ViewerURL: "http://localhost:3000/p/q1-review?theme=dark",
//	    Notes:     []string{"Welcome everyone", "Revenue grew 12%"},
//	})
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser
// instances:
//
//	pool, err := deck2pptx.NewConverterPool(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	data, err := conv.Convert(ctx, input)
//
// # Custom Styles
//
// The converter injects a stylesheet into the viewer before capturing to
// hide editor chrome. Override the built-in styles with WithAssetPath:
//
//	conv, err := deck2pptx.NewConverter(deck2pptx.WithAssetPath("/path/to/assets"))
//
// Asset directory structure:
//
//	assets/
//	└── styles/
//	    ├── capture.css
//	    └── print.css
//
// # Browser Requirements
//
// Capturing requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package deck2pptx
