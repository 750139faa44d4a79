package layout

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalSizeFormula(t *testing.T) {
	tests := []struct {
		name string
		dims Dims
		want uint64
	}{
		{"reference example", Dims{NumLoci: 1, NumSamples: 2, Depth: 60}, 246},
		{"first draft dims", Dims{NumLoci: 2, NumSamples: 2, Depth: 2}, 2 * (2 + 2*(2+2*2))},
		{"no loci", Dims{NumLoci: 0, NumSamples: 5, Depth: 10}, 0},
		{"no samples", Dims{NumLoci: 3, NumSamples: 0, Depth: 10}, 6},
		{"no depth", Dims{NumLoci: 3, NumSamples: 4, Depth: 0}, 3 * (2 + 4*2)},
		{"all zero", Dims{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TotalSize(tt.dims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalSizeMatchesClosedForm(t *testing.T) {
	for l := uint64(0); l < 5; l++ {
		for s := uint64(0); s < 5; s++ {
			for d := uint64(0); d < 7; d++ {
				got, err := TotalSize(Dims{NumLoci: l, NumSamples: s, Depth: d})
				require.NoError(t, err)
				assert.Equal(t, l*(2+s*(2+d*2)), got, "L=%d S=%d D=%d", l, s, d)
			}
		}
	}
}

func TestRecordSizes(t *testing.T) {
	l, err := New(Dims{NumLoci: 4, NumSamples: 3, Depth: 10})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), l.BaseSize())
	assert.Equal(t, uint64(22), l.SampleSize())
	assert.Equal(t, uint64(68), l.LocusSize())
	assert.Equal(t, uint64(272), l.TotalSize())
	assert.Equal(t, Dims{NumLoci: 4, NumSamples: 3, Depth: 10}, l.Dims())
}

func TestOffsets(t *testing.T) {
	l, err := New(Dims{NumLoci: 2, NumSamples: 2, Depth: 3})
	require.NoError(t, err)
	// sample = 2+3*2 = 8, locus = 2+2*8 = 18

	off, err := l.LocusOffset(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(18), off)

	off, err = l.SampleOffset(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(18+2+8), off)

	off, err = l.BaseOffset(1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(18+2+8+2+4), off)

	// The last base call ends exactly at the total size.
	assert.Equal(t, l.TotalSize(), off+l.BaseSize())
}

func TestOffsetsAreContiguous(t *testing.T) {
	l, err := New(Dims{NumLoci: 3, NumSamples: 4, Depth: 5})
	require.NoError(t, err)

	var cursor uint64
	for i := uint64(0); i < 3; i++ {
		off, err := l.LocusOffset(i)
		require.NoError(t, err)
		require.Equal(t, cursor, off)
		cursor += AllelePairSize
		for s := uint64(0); s < 4; s++ {
			off, err := l.SampleOffset(i, s)
			require.NoError(t, err)
			require.Equal(t, cursor, off)
			cursor += GenotypePairSize
			for b := uint64(0); b < 5; b++ {
				off, err := l.BaseOffset(i, s, b)
				require.NoError(t, err)
				require.Equal(t, cursor, off)
				cursor += BaseSize
			}
		}
	}
	assert.Equal(t, l.TotalSize(), cursor)
}

func TestOffsetOutOfRange(t *testing.T) {
	l, err := New(Dims{NumLoci: 1, NumSamples: 1, Depth: 1})
	require.NoError(t, err)

	_, err = l.LocusOffset(1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = l.SampleOffset(0, 1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = l.BaseOffset(0, 0, 1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	empty, err := New(Dims{NumLoci: 0, NumSamples: 1, Depth: 1})
	require.NoError(t, err)
	_, err = empty.LocusOffset(0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestOverflow(t *testing.T) {
	tests := []struct {
		name string
		dims Dims
	}{
		{"depth overflows", Dims{NumLoci: 1, NumSamples: 1, Depth: math.MaxUint64}},
		{"samples overflow", Dims{NumLoci: 1, NumSamples: math.MaxUint64, Depth: 1}},
		{"loci overflow", Dims{NumLoci: math.MaxUint64, NumSamples: 1, Depth: 1}},
		{"product exceeds int", Dims{NumLoci: 1 << 32, NumSamples: 1 << 16, Depth: 1 << 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dims)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrOverflow))
		})
	}
}
