package fakevar

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeHandBuffer(t *testing.T) {
	sum, err := Summarize(handBuffer, handDims)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), sum.BaseCalls)
	assert.Zero(t, sum.Mismatches)
	assert.Equal(t, uint64(1), sum.Heterozygous)
	assert.Equal(t, map[byte]uint64{'A': 1, 'C': 1}, sum.Composition)
	assert.InDelta(t, 34.0, sum.MeanQuality(), 1e-9)
	assert.Zero(t, sum.MismatchRate())

	require.Len(t, sum.Loci, 1)
	assert.Equal(t, [2]byte{'A', 'C'}, sum.Loci[0].Alleles)
	assert.Equal(t, uint64(2), sum.Loci[0].BaseCalls)
}

func TestSummarizeMismatches(t *testing.T) {
	// Homozygous A/A sample with calls A, G, T.
	buf := []byte{'A', 'G', 'A', 'A', 'A', '(', 'G', '(', 'T', '('}
	sum, err := Summarize(buf, Dims{NumLoci: 1, NumSamples: 1, Depth: 3})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), sum.Mismatches)
	assert.Zero(t, sum.Heterozygous)
	assert.InDelta(t, 2.0/3.0, sum.MismatchRate(), 1e-9)
	assert.InDelta(t, 2.0/3.0, sum.Loci[0].MismatchRate(), 1e-9)
	assert.InDelta(t, float64('('), sum.Loci[0].MeanQuality(), 1e-9)
}

func TestSummarizeTotals(t *testing.T) {
	ds, err := Encode(testConfig(4, 3, 20))
	require.NoError(t, err)

	sum, err := Summarize(ds.Bytes(), ds.Dims())
	require.NoError(t, err)

	assert.Equal(t, uint64(4*3*20), sum.BaseCalls)
	require.Len(t, sum.Loci, 4)

	var calls, mismatches, composition uint64
	for i, locus := range sum.Loci {
		assert.Equal(t, uint64(i), locus.Index)
		calls += locus.BaseCalls
		mismatches += locus.Mismatches
	}
	for _, n := range sum.Composition {
		composition += n
	}
	assert.Equal(t, sum.BaseCalls, calls)
	assert.Equal(t, sum.Mismatches, mismatches)
	assert.Equal(t, sum.BaseCalls, composition)
	assert.LessOrEqual(t, sum.Mismatches, ds.Stats().ErrorCalls)
}

func TestSummarizeEmpty(t *testing.T) {
	sum, err := Summarize(nil, Dims{NumLoci: 0, NumSamples: 5, Depth: 5})
	require.NoError(t, err)
	assert.Zero(t, sum.BaseCalls)
	assert.Zero(t, sum.MismatchRate())
	assert.Zero(t, sum.MeanQuality())
	assert.Empty(t, sum.Composition)
}

func TestSummarizeSizeMismatch(t *testing.T) {
	_, err := Summarize(handBuffer[:3], handDims)
	assert.True(t, errors.Is(err, ErrBufferSizeMismatch))
}
