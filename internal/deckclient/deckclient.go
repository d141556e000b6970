// Package deckclient fetches presentation documents from a running
// deck service over its HTTP API.
package deckclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors for deck service operations.
var (
	ErrEmptyBaseURL     = errors.New("base URL is empty")
	ErrEmptyDeckID      = errors.New("deck ID is empty")
	ErrInvalidViewerURL = errors.New("invalid viewer URL")
	ErrDeckNotFound     = errors.New("deck not found")
	ErrServiceRequest   = errors.New("deck service request failed")
	ErrUnexpectedStatus = errors.New("unexpected deck service status")
	ErrResponseTooLarge = errors.New("deck service response exceeds size limit")
)

// MaxResponseSize caps fetched deck documents at 4MB, the same limit
// the deck parser enforces, so an oversized deck fails before parsing.
const MaxResponseSize = 4 << 20

// DefaultTimeout bounds a deck fetch when the caller supplies no
// HTTP client of its own.
const DefaultTimeout = 30 * time.Second

// Client talks to a deck service instance.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the service at baseURL.
func New(baseURL string) (*Client, error) {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient creates a Client using the given HTTP client,
// for tests and callers that need custom transport settings.
func NewWithHTTPClient(baseURL string, httpc *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEmptyBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}, nil
}

// BaseURL returns the service root the client was created with,
// without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchDeck retrieves the raw JSON document for the deck with the
// given ID. The bytes are returned unparsed so the caller decides how
// to interpret them.
func (c *Client) FetchDeck(ctx context.Context, id string) ([]byte, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyDeckID
	}

	endpoint := c.baseURL + "/api/presentations/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrDeckNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	// Read one byte past the cap to tell at-limit from over-limit.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrServiceRequest, err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return data, nil
}

// ViewerURL returns the browser-facing URL for the deck with the
// given ID.
func (c *Client) ViewerURL(id string) string {
	return c.baseURL + "/p/" + url.PathEscape(id)
}

// ServiceBaseFromURL extracts the service root from a viewer URL:
// everything before the last "/p/".
func ServiceBaseFromURL(viewerURL string) (string, error) {
	idx := strings.LastIndex(viewerURL, "/p/")
	if idx < 0 {
		return "", fmt.Errorf("%w: no /p/ segment in %q", ErrInvalidViewerURL, viewerURL)
	}
	base := strings.TrimRight(viewerURL[:idx], "/")
	if base == "" {
		return "", fmt.Errorf("%w: no service root before /p/ in %q", ErrInvalidViewerURL, viewerURL)
	}
	return base, nil
}

// DeckIDFromURL extracts the presentation ID from a viewer URL: the
// path segment after the last "/p/". Query strings and fragments are
// ignored.
func DeckIDFromURL(viewerURL string) (string, error) {
	idx := strings.LastIndex(viewerURL, "/p/")
	if idx < 0 {
		return "", fmt.Errorf("%w: no /p/ segment in %q", ErrInvalidViewerURL, viewerURL)
	}
	id := viewerURL[idx+len("/p/"):]
	if i := strings.IndexAny(id, "?#"); i >= 0 {
		id = id[:i]
	}
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}

	id, err := url.PathUnescape(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidViewerURL, err)
	}
	if id == "" {
		return "", fmt.Errorf("%w: no ID after /p/ in %q", ErrInvalidViewerURL, viewerURL)
	}
	return id, nil
}
