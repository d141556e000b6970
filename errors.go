package deck2pptx

import "errors"

// Sentinel errors for library operations.
var (
	ErrDeckLoad       = errors.New("failed to load presentation deck")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRenderTimeout  = errors.New("render timed out")
	ErrSlideNotFound  = errors.New("slide not found in viewer")
	ErrCaptureFailed  = errors.New("region capture failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrAssembly       = errors.New("document assembly failed")

	// Input validation errors.
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoSlides      = errors.New("presentation has no slides")
	ErrDeckTooLarge  = errors.New("deck JSON exceeds size limit")
	ErrInvalidRegion = errors.New("invalid grid region")

	// Option validation errors.
	ErrInvalidAspectRatio  = errors.New("invalid aspect ratio")
	ErrInvalidQuality      = errors.New("invalid quality level")
	ErrInvalidVariant      = errors.New("invalid conversion variant")
	ErrInvalidLayoutPolicy = errors.New("invalid layout policy")
	ErrInvalidAssetPath    = errors.New("invalid asset path")

	// Layout rendering errors.
	ErrUnsupportedLayout = errors.New("unsupported slide layout")

	// ErrInternal wraps recovered panics at the public boundary.
	ErrInternal = errors.New("internal error")
)
