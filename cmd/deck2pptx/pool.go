package main

import (
	"fmt"

	deck2pptx "github.com/alnah/go-deck2pptx"
)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolFactory creates a Pool sized and configured for one run. Tests
// substitute a factory that returns a mock pool.
type poolFactory func(size int, opts ...deck2pptx.Option) (Pool, error)

// poolAdapter adapts the library ConverterPool to the Pool interface.
type poolAdapter struct {
	pool *deck2pptx.ConverterPool
}

// Compile-time interface implementation check.
var _ Pool = (*poolAdapter)(nil)

// newConverterPool is the production poolFactory.
func newConverterPool(size int, opts ...deck2pptx.Option) (Pool, error) {
	p, err := deck2pptx.NewConverterPool(size, opts...)
	if err != nil {
		return nil, err
	}
	return &poolAdapter{pool: p}, nil
}

func (a *poolAdapter) Acquire() CLIConverter {
	return a.pool.Acquire()
}

// Release returns a converter to the pool. Only converters obtained
// from Acquire may be released; anything else is a programmer error.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*deck2pptx.Converter)
	if !ok {
		panic(fmt.Sprintf("pool adapter: unexpected type %T released to pool", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
