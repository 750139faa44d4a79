package layout

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// Field widths in bytes. Every field of the format is one byte.
const (
	AlleleWidth   = 1
	GenotypeWidth = 1
	ValueWidth    = 1
	QualityWidth  = 1

	// AllelePairSize is the size of the allele pair heading each locus.
	AllelePairSize = 2 * AlleleWidth

	// GenotypePairSize is the size of the genotype pair heading each sample.
	GenotypePairSize = 2 * GenotypeWidth

	// BaseSize is the size of one base call record.
	BaseSize = ValueWidth + QualityWidth
)

var (
	// ErrOverflow is returned when a record or total size does not fit in
	// the addressable buffer length.
	ErrOverflow = errors.New("layout size overflows addressable buffer length")

	// ErrIndexOutOfRange is returned when an offset is requested for a
	// record index outside the dimensions.
	ErrIndexOutOfRange = errors.New("record index out of range")
)

// Dims holds the structural parameters that interpret a buffer. They are
// never stored in the buffer itself.
type Dims struct {
	NumLoci    uint64 `json:"num_loci"`
	NumSamples uint64 `json:"num_samples"`
	Depth      uint64 `json:"depth"`
}

func (d Dims) String() string {
	return fmt.Sprintf("loci=%d samples=%d depth=%d", d.NumLoci, d.NumSamples, d.Depth)
}

// Layout holds the record sizes for a set of dimensions.
// It is immutable and safe for concurrent use.
type Layout struct {
	dims       Dims
	sampleSize uint64
	locusSize  uint64
	totalSize  uint64
}

// New computes the layout for dims. Zero dimensions are valid; sizes that
// overflow uint64 or exceed the maximum int return ErrOverflow.
func New(dims Dims) (*Layout, error) {
	baseArray, err := mulSize(dims.Depth, BaseSize)
	if err != nil {
		return nil, errors.Wrapf(err, "base array for depth %d", dims.Depth)
	}
	sampleSize, err := addSize(GenotypePairSize, baseArray)
	if err != nil {
		return nil, errors.Wrap(err, "sample record")
	}
	sampleArray, err := mulSize(dims.NumSamples, sampleSize)
	if err != nil {
		return nil, errors.Wrapf(err, "sample array for %d samples", dims.NumSamples)
	}
	locusSize, err := addSize(AllelePairSize, sampleArray)
	if err != nil {
		return nil, errors.Wrap(err, "locus record")
	}
	totalSize, err := mulSize(dims.NumLoci, locusSize)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset of %d loci", dims.NumLoci)
	}

	return &Layout{
		dims:       dims,
		sampleSize: sampleSize,
		locusSize:  locusSize,
		totalSize:  totalSize,
	}, nil
}

// TotalSize returns the buffer length implied by dims.
func TotalSize(dims Dims) (uint64, error) {
	l, err := New(dims)
	if err != nil {
		return 0, err
	}
	return l.TotalSize(), nil
}

// Dims returns the dimensions this layout was computed for.
func (l *Layout) Dims() Dims {
	return l.dims
}

// BaseSize returns the size of a base call record.
func (l *Layout) BaseSize() uint64 {
	return BaseSize
}

// SampleSize returns the size of a sample record including its base calls.
func (l *Layout) SampleSize() uint64 {
	return l.sampleSize
}

// LocusSize returns the size of a locus record including its samples.
func (l *Layout) LocusSize() uint64 {
	return l.locusSize
}

// TotalSize returns the size of the whole dataset.
func (l *Layout) TotalSize() uint64 {
	return l.totalSize
}

// LocusOffset returns the byte offset of locus i.
func (l *Layout) LocusOffset(i uint64) (uint64, error) {
	if i >= l.dims.NumLoci {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "locus %d of %d", i, l.dims.NumLoci)
	}
	return i * l.locusSize, nil
}

// SampleOffset returns the byte offset of sample s within locus i.
func (l *Layout) SampleOffset(i, s uint64) (uint64, error) {
	off, err := l.LocusOffset(i)
	if err != nil {
		return 0, err
	}
	if s >= l.dims.NumSamples {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "sample %d of %d", s, l.dims.NumSamples)
	}
	return off + AllelePairSize + s*l.sampleSize, nil
}

// BaseOffset returns the byte offset of base call b of sample s within locus i.
func (l *Layout) BaseOffset(i, s, b uint64) (uint64, error) {
	off, err := l.SampleOffset(i, s)
	if err != nil {
		return 0, err
	}
	if b >= l.dims.Depth {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "base %d of %d", b, l.dims.Depth)
	}
	return off + GenotypePairSize + b*BaseSize, nil
}

// mulSize multiplies two sizes, failing if the product does not fit in an int.
func mulSize(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 || lo > math.MaxInt {
		return 0, ErrOverflow
	}
	return lo, nil
}

// addSize adds two sizes, failing if the sum does not fit in an int.
func addSize(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 || sum > math.MaxInt {
		return 0, ErrOverflow
	}
	return sum, nil
}
