package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	deck2pptx "github.com/alnah/go-deck2pptx"
	"github.com/alnah/go-deck2pptx/internal/config"
	"github.com/alnah/go-deck2pptx/internal/deckclient"
	"github.com/alnah/go-deck2pptx/internal/fileutil"
)

// ErrInvalidWorkerCount indicates a worker count outside valid bounds.
var ErrInvalidWorkerCount = errors.New("invalid worker count")

// resolveJobs turns positional arguments into conversion jobs.
// Each argument is a presentation ID, a viewer URL, or a local deck JSON file.
func resolveJobs(args []string, cfg *config.Config) ([]ConvertJob, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	jobs := make([]ConvertJob, 0, len(args))
	for _, arg := range args {
		job, err := resolveJob(arg, cfg.Service.BaseURL)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// resolveJob classifies a single deck reference.
func resolveJob(arg, baseURL string) (ConvertJob, error) {
	switch {
	case strings.HasSuffix(arg, ".json"):
		// Local deck JSON; the browser still loads slides from the service
		if baseURL == "" {
			return ConvertJob{}, fmt.Errorf("%w (deck file %q)", ErrNoBaseURL, arg)
		}
		id := strings.TrimSuffix(filepath.Base(arg), ".json")
		return ConvertJob{
			Ref:     arg,
			ID:      id,
			Source:  sourceFile,
			Path:    arg,
			BaseURL: baseURL,
		}, nil

	case fileutil.IsURL(arg):
		id, err := deckclient.DeckIDFromURL(arg)
		if err != nil {
			return ConvertJob{}, err
		}
		base, err := deckclient.ServiceBaseFromURL(arg)
		if err != nil {
			return ConvertJob{}, err
		}
		return ConvertJob{
			Ref:       arg,
			ID:        id,
			Source:    sourceURL,
			ViewerURL: arg,
			BaseURL:   base,
		}, nil

	default:
		if baseURL == "" {
			return ConvertJob{}, fmt.Errorf("%w (presentation %q)", ErrNoBaseURL, arg)
		}
		return ConvertJob{
			Ref:     arg,
			ID:      arg,
			Source:  sourceID,
			BaseURL: baseURL,
		}, nil
	}
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > deck2pptx.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, deck2pptx.MaxPoolSize)
	}
	return nil
}
