package main

// Notes:
// - This file contains test helpers and mocks used across convert tests.
// - These are not functions under test themselves, but supporting infrastructure.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"context"
	"sync"

	deck2pptx "github.com/alnah/go-deck2pptx"
)

// sampleDeckJSON is a minimal valid deck document.
const sampleDeckJSON = `{
  "name": "Q1 Review",
  "slides": [
    {"layout": "title", "content": {"title": "Q1 Review", "subtitle": "Revenue and roadmap"}},
    {"layout": "bullets", "content": {"title": "Highlights", "body": "- Revenue up 12%\n- Churn down"}}
  ]
}`

// mockCLIConverter returns canned bytes and records the inputs it saw.
type mockCLIConverter struct {
	mu        sync.Mutex
	pptxData  []byte
	pdfData   []byte
	err       error
	inputs    []deck2pptx.Input
	pdfInputs []deck2pptx.Input
}

func newMockCLIConverter() *mockCLIConverter {
	return &mockCLIConverter{
		pptxData: []byte("PK\x03\x04 mock pptx"),
		pdfData:  []byte("%PDF-1.4 mock"),
	}
}

func (m *mockCLIConverter) Convert(_ context.Context, input deck2pptx.Input) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	return m.pptxData, nil
}

func (m *mockCLIConverter) ConvertPDF(_ context.Context, input deck2pptx.Input) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdfInputs = append(m.pdfInputs, input)
	if m.err != nil {
		return nil, m.err
	}
	return m.pdfData, nil
}

// callCount returns how many conversions the mock served.
func (m *mockCLIConverter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs) + len(m.pdfInputs)
}

// mockPool hands out a single shared mock converter.
type mockPool struct {
	conv     CLIConverter
	size     int
	closed   bool
	closeErr error
}

func newMockPool(conv CLIConverter, size int) *mockPool {
	return &mockPool{conv: conv, size: size}
}

func (p *mockPool) Acquire() CLIConverter { return p.conv }

func (p *mockPool) Release(_ CLIConverter) {}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error { p.closed = true; return p.closeErr }

// mockPoolFactory records the requested pool size and option count.
type mockPoolFactory struct {
	pool    *mockPool
	err     error
	gotSize int
	gotOpts int
	invoked bool
}

func (f *mockPoolFactory) new(size int, opts ...deck2pptx.Option) (Pool, error) {
	f.invoked = true
	f.gotSize = size
	f.gotOpts = len(opts)
	if f.err != nil {
		return nil, f.err
	}
	if f.pool.size == 0 {
		f.pool.size = size
	}
	return f.pool, nil
}
