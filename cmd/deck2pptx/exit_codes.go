package main

import (
	"context"
	"errors"
	"os"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/config"
	"github.com/alnah/go-deck2pptx/internal/deckclient"
)

// Exit codes for the deck2pptx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitService = 5 // Deck service unreachable or deck missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, deck2pptx.ErrBrowserConnect) ||
		errors.Is(err, deck2pptx.ErrPageCreate) ||
		errors.Is(err, deck2pptx.ErrPageLoad) ||
		errors.Is(err, deck2pptx.ErrRenderTimeout) ||
		errors.Is(err, deck2pptx.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// Deck service errors (exit 5)
	if errors.Is(err, deckclient.ErrDeckNotFound) ||
		errors.Is(err, deckclient.ErrServiceRequest) ||
		errors.Is(err, deckclient.ErrUnexpectedStatus) ||
		errors.Is(err, deckclient.ErrResponseTooLarge) {
		return ExitService
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadDeck) ||
		errors.Is(err, ErrReadNotes) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrNoBaseURL) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrNotesSingleDeck) ||
		errors.Is(err, ErrOutputSingleDeck) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, deck2pptx.ErrInvalidInput) ||
		errors.Is(err, deck2pptx.ErrNoSlides) ||
		errors.Is(err, deck2pptx.ErrDeckTooLarge) ||
		errors.Is(err, deck2pptx.ErrInvalidVariant) ||
		errors.Is(err, deck2pptx.ErrInvalidQuality) ||
		errors.Is(err, deck2pptx.ErrInvalidAspectRatio) ||
		errors.Is(err, deck2pptx.ErrInvalidLayoutPolicy) ||
		errors.Is(err, deck2pptx.ErrInvalidAssetPath) ||
		errors.Is(err, deck2pptx.ErrUnsupportedLayout) ||
		errors.Is(err, deckclient.ErrInvalidViewerURL) ||
		errors.Is(err, deckclient.ErrEmptyBaseURL) ||
		errors.Is(err, deckclient.ErrEmptyDeckID) {
		return ExitUsage
	}

	return ExitGeneral
}
