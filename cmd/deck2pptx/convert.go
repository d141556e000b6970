package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/assets"
	"github.com/alnah/go-deck2pptx/internal/config"
	"github.com/alnah/go-deck2pptx/internal/deckclient"
	"github.com/alnah/go-deck2pptx/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoBaseURL        = errors.New("base URL required (flag --base-url, env DECK2PPTX_BASE_URL, or config service.baseUrl)")
	ErrNotesSingleDeck  = errors.New("--notes-file applies to a single presentation")
	ErrOutputSingleDeck = errors.New("output file applies to a single presentation")
)

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, newConverterPool, env); err != nil {
		fmt.Fprintln(env.Stderr, errorWithHint(err, flags.service.baseURL))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, newPool poolFactory, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	format, err := resolveFormat(flags.render.format, flags.out.output)
	if err != nil {
		return err
	}

	// Environment variables fill gaps the flags leave open
	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	// Load configuration
	cfg := config.DefaultConfig()
	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	if configName != "" {
		cfg, err = config.LoadConfig(configName)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	applyEnvConfig(envCfg, cfg)

	// Merge CLI flags into config (CLI wins)
	if err := mergeFlags(cfg, &flags.service, &flags.render, &flags.browser, &flags.assets); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Convert.TimeoutSeconds)
	if err != nil {
		return err
	}

	notes, err := readNotesFile(flags.notesFile)
	if err != nil {
		return err
	}

	jobs, err := resolveJobs(positionalArgs, cfg)
	if err != nil {
		return err
	}
	if notes != nil && len(jobs) != 1 {
		return fmt.Errorf("%w, got %d", ErrNotesSingleDeck, len(jobs))
	}

	outFile, outDir, err := resolveOutputTarget(flags.out.output, format, len(jobs))
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Output.DefaultDir
	}

	params := &conversionParams{
		format:  format,
		pattern: resolvePattern(flags.out.pattern, cfg),
		outDir:  outDir,
		outFile: outFile,
		notes:   notes,
		now:     env.Now,
	}

	// Size the pool before paying for browser startup
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	poolSize := deck2pptx.ResolvePoolSize(workers)
	if poolSize > len(jobs) {
		poolSize = len(jobs)
	}

	pool, err := newPool(poolSize, buildOptions(cfg, timeout)...)
	if err != nil {
		return fmt.Errorf("creating converter pool: %w", err)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil && flags.common.verbose {
			fmt.Fprintf(env.Stderr, "warning: closing pool: %v\n", cerr)
		}
	}()

	results := convertBatch(ctx, pool, jobs, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// mergeFlags merges CLI flag groups into config. CLI values override config values.
func mergeFlags(cfg *config.Config, service *serviceFlags, render *renderFlags, browser *browserFlags, assets *assetFlags) error {
	// Service flags
	if service.baseURL != "" {
		cfg.Service.BaseURL = service.baseURL
	}

	// Rendering flags
	if render.variant != "" {
		cfg.Convert.Variant = render.variant
	}
	if render.quality != "" {
		cfg.Convert.Quality = render.quality
	}
	if render.aspectRatio != "" {
		cfg.Convert.AspectRatio = render.aspectRatio
	}
	if render.layoutPolicy != "" {
		cfg.Convert.LayoutPolicy = render.layoutPolicy
	}

	// Browser flags
	if browser.bin != "" {
		cfg.Browser.Bin = browser.bin
	}
	if browser.viewportWidth != 0 {
		cfg.Browser.ViewportWidth = browser.viewportWidth
	}
	if browser.viewportHeight != 0 {
		cfg.Browser.ViewportHeight = browser.viewportHeight
	}
	if browser.deviceScale != 0 {
		cfg.Browser.DeviceScale = browser.deviceScale
	}

	// Asset flags
	if assets.assetPath != "" {
		cfg.Assets.BasePath = assets.assetPath
	}
	if assets.injectCSS != "" {
		css, err := os.ReadFile(assets.injectCSS) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		cfg.Inject.CSS = string(css)
	}

	return nil
}

// hintFor returns an actionable hint for known failure modes, or "".
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, deck2pptx.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, deckclient.ErrDeckNotFound):
		return hints.ForDeckNotFound()
	case errors.Is(err, deck2pptx.ErrRenderTimeout), errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput), errors.Is(err, os.ErrPermission):
		return hints.ForOutputDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, deck2pptx.ErrInvalidAssetPath):
		return hints.ForStyleNotFound([]string{assets.CaptureStyleName, assets.PrintStyleName})
	}
	return ""
}

// errorWithHint decorates an error message with a hint when one applies.
func errorWithHint(err error, baseURL string) string {
	msg := fmt.Sprintf("Error: %v", err)
	if hint := hintFor(err); hint != "" {
		return msg + hint
	}
	if errors.Is(err, deckclient.ErrServiceRequest) && baseURL != "" {
		return msg + hints.ForServiceConnect(baseURL)
	}
	return msg
}
