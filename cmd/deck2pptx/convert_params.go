package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/config"
	"github.com/alnah/go-deck2pptx/internal/deckclient"
	"github.com/alnah/go-deck2pptx/internal/fileutil"
)

// ErrInvalidFormat indicates an unsupported output format.
var ErrInvalidFormat = errors.New("invalid output format")

// defaultNamePattern names outputs when no pattern is configured.
const defaultNamePattern = "presentation-{id}.{ext}"

// outputFormat selects the conversion target.
type outputFormat int

const (
	formatPPTX outputFormat = iota
	formatPDF
)

// ext returns the file extension without the dot.
func (f outputFormat) ext() string {
	if f == formatPDF {
		return "pdf"
	}
	return "pptx"
}

// conversionParams groups parameters shared across batch conversion.
type conversionParams struct {
	format  outputFormat
	pattern string
	outDir  string
	outFile string // explicit -o file target, single job only
	notes   []string
	now     func() time.Time
}

// resolveFormat determines the output format from the flag, falling back
// to the -o target's extension.
func resolveFormat(flagFormat, output string) (outputFormat, error) {
	switch flagFormat {
	case "":
		if strings.HasSuffix(output, ".pdf") {
			return formatPDF, nil
		}
		return formatPPTX, nil
	case "pptx":
		return formatPPTX, nil
	case "pdf":
		return formatPDF, nil
	default:
		return formatPPTX, fmt.Errorf("%w: %q (supported: pptx, pdf)", ErrInvalidFormat, flagFormat)
	}
}

// resolveOutputTarget interprets the -o flag as either a file or a directory.
// A file target is only valid for a single presentation.
func resolveOutputTarget(output string, format outputFormat, numJobs int) (outFile, outDir string, err error) {
	if output == "" {
		return "", "", nil
	}

	ext := filepath.Ext(output)
	if ext != ".pptx" && ext != ".pdf" {
		return "", output, nil
	}

	if ext != "."+format.ext() {
		return "", "", fmt.Errorf("%w: output file %q does not match format %q", ErrInvalidFormat, output, format.ext())
	}
	if numJobs > 1 {
		return "", "", fmt.Errorf("%w: %q (got %d)", ErrOutputSingleDeck, output, numJobs)
	}
	return output, "", nil
}

// resolvePattern picks the output filename pattern.
// Priority: flag > config > default.
func resolvePattern(flagPattern string, cfg *config.Config) string {
	if flagPattern != "" {
		return flagPattern
	}
	if cfg.Output.FilenamePattern != "" {
		return cfg.Output.FilenamePattern
	}
	return defaultNamePattern
}

// resolveTimeoutWithEnv resolves the conversion timeout.
// Priority: flag > env var > config. Returns 0 for the library default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configSeconds int) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %v", flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %v", d)
		}
		return d, nil
	}

	if envValue > 0 {
		return envValue, nil
	}

	if configSeconds > 0 {
		return time.Duration(configSeconds) * time.Second, nil
	}

	return 0, nil
}

// readNotesFile loads speaker notes from a JSON array of strings.
// Entry i becomes the notes for slide i.
func readNotesFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadNotes, err)
	}

	var notes []string
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of strings: %v", ErrReadNotes, err)
	}
	return notes, nil
}

// buildOptions translates config into converter options.
func buildOptions(cfg *config.Config, timeout time.Duration) []deck2pptx.Option {
	var opts []deck2pptx.Option

	if timeout > 0 {
		opts = append(opts, deck2pptx.WithTimeout(timeout))
	}
	if cfg.Convert.Variant != "" {
		opts = append(opts, deck2pptx.WithVariant(cfg.Convert.Variant))
	}
	if cfg.Convert.Quality != "" {
		opts = append(opts, deck2pptx.WithQuality(cfg.Convert.Quality))
	}
	if cfg.Convert.AspectRatio != "" {
		opts = append(opts, deck2pptx.WithAspectRatio(cfg.Convert.AspectRatio))
	}
	if cfg.Convert.LayoutPolicy != "" {
		opts = append(opts, deck2pptx.WithLayoutPolicy(cfg.Convert.LayoutPolicy))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, deck2pptx.WithBrowserBin(cfg.Browser.Bin))
	}
	if cfg.Browser.ViewportWidth > 0 && cfg.Browser.ViewportHeight > 0 {
		opts = append(opts, deck2pptx.WithViewport(cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight))
	}
	if cfg.Browser.DeviceScale > 0 {
		opts = append(opts, deck2pptx.WithDeviceScale(cfg.Browser.DeviceScale))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, deck2pptx.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Inject.CSS != "" {
		opts = append(opts, deck2pptx.WithInjectCSS(cfg.Inject.CSS))
	}

	return opts
}

// buildJobInput fetches or reads the deck and assembles the converter input.
// Returns the deck name for output file naming.
func buildJobInput(ctx context.Context, job ConvertJob, params *conversionParams) (deck2pptx.Input, string, error) {
	var deckData []byte

	switch job.Source {
	case sourceFile:
		data, err := os.ReadFile(job.Path) // #nosec G304 -- user-provided path
		if err != nil {
			return deck2pptx.Input{}, "", fmt.Errorf("%w: %v", ErrReadDeck, err)
		}
		deckData = data

	default:
		client, err := deckclient.New(job.BaseURL)
		if err != nil {
			return deck2pptx.Input{}, "", err
		}
		data, err := client.FetchDeck(ctx, job.ID)
		if err != nil {
			return deck2pptx.Input{}, "", err
		}
		deckData = data
	}

	deck, err := deck2pptx.ParsePresentation(deckData)
	if err != nil {
		return deck2pptx.Input{}, "", err
	}

	input := deck2pptx.Input{
		DeckID:    job.ID,
		BaseURL:   job.BaseURL,
		Deck:      deck,
		ViewerURL: job.ViewerURL,
		Notes:     params.notes,
	}
	return input, deck.Name, nil
}

// resolveOutputPath determines the output file for one presentation.
func resolveOutputPath(params *conversionParams, id, deckName string) (string, error) {
	if params.outFile != "" {
		return params.outFile, nil
	}

	name, err := fileutil.OutputName(params.pattern, id, deckName, params.format.ext(), params.now())
	if err != nil {
		return "", err
	}
	return filepath.Join(params.outDir, name), nil
}
