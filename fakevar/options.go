package fakevar

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/robert-malhotra/go-fakevar/internal/alloc"
)

// Option configures encoding and decoding.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	metrics   *Metrics
	source    rand.Source
	allocator *alloc.Allocator
	maxSize   uint64
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.allocator == nil {
		o.allocator = alloc.New(o.maxSize)
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records encode and decode activity in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSource draws dataset contents from src instead of a source seeded
// from Config.Seed. The dataset then reports no seed.
func WithSource(src rand.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithMaxBufferSize refuses to encode datasets larger than n bytes.
// Ignored when WithAllocator is also given.
func WithMaxBufferSize(n uint64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// Allocator acquires dataset buffers; share one to track totals across runs.
type Allocator = alloc.Allocator

// NewAllocator returns an Allocator refusing buffers above limit bytes
// (0 selects a 4 GiB default).
func NewAllocator(limit uint64) *Allocator {
	return alloc.New(limit)
}

// WithAllocator acquires buffers from a.
func WithAllocator(a *Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}
