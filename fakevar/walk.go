package fakevar

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-fakevar/internal/binary"
	"github.com/robert-malhotra/go-fakevar/internal/layout"
)

// RecordKind identifies the level of a record in the hierarchy.
type RecordKind int

// Record kinds, outermost first.
const (
	LocusRecord RecordKind = iota
	SampleRecord
	BaseCallRecord
)

func (k RecordKind) String() string {
	switch k {
	case LocusRecord:
		return "locus"
	case SampleRecord:
		return "sample"
	case BaseCallRecord:
		return "base"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// Record is one visited record.
type Record struct {
	Kind RecordKind

	// Locus, Sample and Base index the record. Only the indices up to
	// Kind's level are meaningful.
	Locus  uint64
	Sample uint64
	Base   uint64

	// Offset is the byte offset of the record's first field.
	Offset uint64

	// Symbols holds the record's leading field pair: the alleles of a
	// locus, the genotype of a sample, or the value and quality of a base
	// call.
	Symbols [2]byte
}

// Skip values a WalkFunc may return.
var (
	// SkipLocus skips the remaining samples of the current locus.
	SkipLocus = errors.New("skip this locus")

	// SkipSample skips the remaining base calls of the current sample.
	// Returned for a locus record it skips the locus.
	SkipSample = errors.New("skip this sample")
)

// WalkFunc is called for each record during traversal.
// Return nil to continue walking, SkipLocus or SkipSample to skip the rest
// of the enclosing record, or any other error to stop.
type WalkFunc func(rec Record) error

// Walk traverses buf as a dataset with the given dimensions, calling fn for
// every locus, sample and base call in buffer order.
//
// The buffer length is checked against the layout before any record is
// visited; a mismatch returns ErrBufferSizeMismatch. Every record is read
// through a reader bounded to the offset and size the layout derives for
// it, so the walk never reads past the end of the dataset. buf is never
// modified.
//
// Example:
//
//	Walk(buf, dims, func(rec Record) error {
//	    if rec.Kind == BaseCallRecord && rec.Symbols[1] < '5' {
//	        fmt.Println("low quality call at", rec.Offset)
//	    }
//	    return nil
//	})
func Walk(buf []byte, dims Dims, fn WalkFunc) error {
	return NewDecoder().Walk(buf, dims, fn)
}

// Decoder reads fakevar buffers. It keeps no state between calls; the
// zero value is not usable, use NewDecoder.
type Decoder struct {
	logger  *zap.Logger
	metrics *Metrics
}

// NewDecoder creates a decoder. WithLogger and WithMetrics apply; other
// options are ignored.
func NewDecoder(opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Decoder{logger: o.logger, metrics: o.metrics}
}

// Walk is the Decoder form of the package-level Walk.
func (d *Decoder) Walk(buf []byte, dims Dims, fn WalkFunc) error {
	lay, err := d.checkSize(buf, dims)
	if err != nil {
		return err
	}

	root := binary.NewReader(buf)
	for i := uint64(0); i < dims.NumLoci; i++ {
		err := d.walkLocus(root, lay, i, fn)
		if errors.Is(err, SkipLocus) || errors.Is(err, SkipSample) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// checkSize validates len(buf) against the layout for dims.
func (d *Decoder) checkSize(buf []byte, dims Dims) (*layout.Layout, error) {
	lay, err := layout.New(dims)
	if err != nil {
		d.metrics.observeDecodeFailure("invalid_parameter")
		return nil, kindError(ErrInvalidParameter, err)
	}
	if got, want := uint64(len(buf)), lay.TotalSize(); got != want {
		d.metrics.observeDecodeFailure("size_mismatch")
		d.logger.Warn("buffer size mismatch",
			zap.Stringer("dims", dims),
			zap.Uint64("want", want),
			zap.Uint64("got", got),
		)
		return nil, errors.Wrapf(ErrBufferSizeMismatch, "%s needs %d bytes, buffer has %d", dims, want, got)
	}
	return lay, nil
}

func (d *Decoder) walkLocus(root *binary.Reader, lay *layout.Layout, i uint64, fn WalkFunc) error {
	off, err := lay.LocusOffset(i)
	if err != nil {
		return err
	}
	r, err := root.At(off, lay.LocusSize())
	if err != nil {
		return errors.Wrapf(err, "locus %d", i)
	}
	a0, a1, err := r.ReadPair()
	if err != nil {
		return errors.Wrapf(err, "locus %d alleles", i)
	}
	if err := fn(Record{Kind: LocusRecord, Locus: i, Offset: off, Symbols: [2]byte{a0, a1}}); err != nil {
		return err
	}

	for s := uint64(0); s < lay.Dims().NumSamples; s++ {
		err := d.walkSample(root, lay, i, s, fn)
		if errors.Is(err, SkipSample) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) walkSample(root *binary.Reader, lay *layout.Layout, i, s uint64, fn WalkFunc) error {
	off, err := lay.SampleOffset(i, s)
	if err != nil {
		return err
	}
	r, err := root.At(off, lay.SampleSize())
	if err != nil {
		return errors.Wrapf(err, "locus %d sample %d", i, s)
	}
	g0, g1, err := r.ReadPair()
	if err != nil {
		return errors.Wrapf(err, "locus %d sample %d genotype", i, s)
	}
	rec := Record{Kind: SampleRecord, Locus: i, Sample: s, Offset: off, Symbols: [2]byte{g0, g1}}
	if err := fn(rec); err != nil {
		return err
	}

	for b := uint64(0); b < lay.Dims().Depth; b++ {
		off, err := lay.BaseOffset(i, s, b)
		if err != nil {
			return err
		}
		br, err := root.At(off, lay.BaseSize())
		if err != nil {
			return errors.Wrapf(err, "locus %d sample %d base %d", i, s, b)
		}
		value, quality, err := br.ReadPair()
		if err != nil {
			return errors.Wrapf(err, "locus %d sample %d base %d", i, s, b)
		}
		rec := Record{
			Kind:    BaseCallRecord,
			Locus:   i,
			Sample:  s,
			Base:    b,
			Offset:  off,
			Symbols: [2]byte{value, quality},
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
