package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/fileutil"
)

// filePermissions is the mode for generated presentation files.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no presentations specified")
	ErrReadDeck    = errors.New("failed to read deck file")
	ErrReadNotes   = errors.New("failed to read notes file")
	ErrReadCSS     = errors.New("failed to read CSS file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input deck2pptx.Input) ([]byte, error)
	ConvertPDF(ctx context.Context, input deck2pptx.Input) ([]byte, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*deck2pptx.Converter)(nil)

// deckSource identifies how a job's deck reference was given.
type deckSource int

const (
	sourceID deckSource = iota
	sourceURL
	sourceFile
)

// ConvertJob describes one presentation to convert.
type ConvertJob struct {
	Ref       string // the argument as the user typed it
	ID        string
	Source    deckSource
	Path      string // local deck JSON, set for sourceFile
	ViewerURL string // set for sourceURL
	BaseURL   string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	Ref        string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch processes jobs concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, jobs []ConvertJob, params *conversionParams) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]ConversionResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			defer pool.Release(conv)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						Ref: jobs[idx].Ref,
						Err: ctx.Err(),
					}
					continue
				}
				results[idx] = convertJob(ctx, conv, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// convertJob processes a single presentation and returns the result.
func convertJob(ctx context.Context, conv CLIConverter, job ConvertJob, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{Ref: job.Ref}

	input, deckName, err := buildJobInput(ctx, job, params)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	outPath, err := resolveOutputPath(params, job.ID, deckName)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.OutputPath = outPath

	if err := fileutil.EnsureDir(filepath.Dir(outPath)); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	var data []byte
	switch params.format {
	case formatPDF:
		data, err = conv.ConvertPDF(ctx, input)
	default:
		data, err = conv.Convert(ctx, input)
	}
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- presentations are meant to be readable
	if err := os.WriteFile(outPath, data, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Ref, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Ref, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
