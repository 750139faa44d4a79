package model

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, params Params, seed uint64) *Model {
	t.Helper()
	m, err := New(params, NewSource(seed))
	require.NoError(t, err)
	return m
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"empty alphabet", func(p *Params) { p.Alphabet = nil }},
		{"duplicate symbols", func(p *Params) { p.Alphabet = []byte("ACGA") }},
		{"oversized alphabet", func(p *Params) { p.Alphabet = make([]byte, 257) }},
		{"negative error rate", func(p *Params) { p.ErrorRate = -0.1 }},
		{"error rate above one", func(p *Params) { p.ErrorRate = 1.5 }},
		{"NaN error rate", func(p *Params) { p.ErrorRate = math.NaN() }},
		{"inverted quality range", func(p *Params) { p.QualityLow, p.QualityHigh = 0x50, 0x40 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParams))

			_, err = New(p, NewSource(1))
			assert.True(t, errors.Is(err, ErrInvalidParams))
		})
	}

	assert.NoError(t, DefaultParams().Validate())
}

func TestNewNilSource(t *testing.T) {
	_, err := New(DefaultParams(), nil)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, []byte("ACGT"), p.Alphabet)
	assert.Equal(t, 0.02, p.ErrorRate)
	assert.Equal(t, byte(0x21), p.QualityLow)
	assert.Equal(t, byte(0x7e), p.QualityHigh)
	assert.True(t, p.Contains('G'))
	assert.False(t, p.Contains('N'))
}

func TestAllelePairFromAlphabet(t *testing.T) {
	p := DefaultParams()
	m := newTestModel(t, p, 7)
	seen := map[byte]bool{}
	sawDuplicate := false

	for i := 0; i < 2000; i++ {
		a0, a1 := m.AllelePair()
		require.True(t, p.Contains(a0))
		require.True(t, p.Contains(a1))
		seen[a0], seen[a1] = true, true
		if a0 == a1 {
			sawDuplicate = true
		}
	}

	assert.Len(t, seen, 4, "every symbol should eventually be drawn")
	assert.True(t, sawDuplicate, "duplicate alleles are permitted")
	assert.Equal(t, uint64(2000), m.Stats().AllelePairs)
}

func TestGenotypeFromAlleles(t *testing.T) {
	m := newTestModel(t, DefaultParams(), 11)
	counts := map[[2]byte]int{}

	for i := 0; i < 4000; i++ {
		g0, g1 := m.Genotype('A', 'T')
		require.Contains(t, []byte{'A', 'T'}, g0)
		require.Contains(t, []byte{'A', 'T'}, g1)
		counts[[2]byte{g0, g1}]++
	}

	// All four ordered combinations, including homozygous ones, occur.
	assert.Len(t, counts, 4)
	for combo, n := range counts {
		assert.InDelta(t, 1000, n, 150, "combination %q", combo[:])
	}
}

func TestBaseCallRanges(t *testing.T) {
	p := DefaultParams()
	p.ErrorRate = 0.5
	p.QualityLow, p.QualityHigh = 'A', 'E'
	m := newTestModel(t, p, 3)

	qualities := map[byte]bool{}
	for i := 0; i < 10000; i++ {
		v, q := m.BaseCall('C', 'C')
		require.True(t, p.Contains(v), "value %q not in alphabet", v)
		require.GreaterOrEqual(t, q, p.QualityLow)
		require.LessOrEqual(t, q, p.QualityHigh)
		qualities[q] = true
	}
	assert.Len(t, qualities, 5, "both ends of the quality range are reachable")
}

func TestBaseCallSingleQuality(t *testing.T) {
	p := DefaultParams()
	p.QualityLow, p.QualityHigh = 0x30, 0x30
	m := newTestModel(t, p, 5)

	for i := 0; i < 100; i++ {
		_, q := m.BaseCall('A', 'G')
		require.Equal(t, byte(0x30), q)
	}
}

func TestBaseCallNoErrors(t *testing.T) {
	p := DefaultParams()
	p.ErrorRate = 0
	m := newTestModel(t, p, 9)

	for i := 0; i < 5000; i++ {
		v, _ := m.BaseCall('G', 'T')
		require.Contains(t, []byte{'G', 'T'}, v)
	}
	assert.Zero(t, m.Stats().ErrorCalls)
}

func TestBaseCallAllErrors(t *testing.T) {
	p := DefaultParams()
	p.ErrorRate = 1
	m := newTestModel(t, p, 9)

	seen := map[byte]bool{}
	for i := 0; i < 1000; i++ {
		v, _ := m.BaseCall('G', 'G')
		seen[v] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, uint64(1000), m.Stats().ErrorCalls)
}

func TestErrorRateConvergence(t *testing.T) {
	const n = 100000
	p := DefaultParams()
	m := newTestModel(t, p, 42)

	outside := 0
	for i := 0; i < n; i++ {
		v, _ := m.BaseCall('A', 'A')
		if v != 'A' {
			outside++
		}
	}

	stats := m.Stats()
	assert.Equal(t, uint64(n), stats.BaseCalls)
	assert.InDelta(t, p.ErrorRate, float64(stats.ErrorCalls)/n, 0.01)

	// Error calls land on the genotype symbol a quarter of the time with a
	// four-symbol alphabet, so fewer calls fall outside than were errors.
	assert.InDelta(t, p.ErrorRate, float64(outside)/n, 0.01)
	assert.InDelta(t, p.ErrorRate*3/4, float64(outside)/n, 0.003)
	assert.LessOrEqual(t, uint64(outside), stats.ErrorCalls)
}

func TestSeededModelsAreReproducible(t *testing.T) {
	draw := func(seed uint64) []byte {
		m := newTestModel(t, DefaultParams(), seed)
		var out []byte
		for i := 0; i < 50; i++ {
			a0, a1 := m.AllelePair()
			g0, g1 := m.Genotype(a0, a1)
			v, q := m.BaseCall(g0, g1)
			out = append(out, a0, a1, g0, g1, v, q)
		}
		return out
	}

	assert.Equal(t, draw(1234), draw(1234))
	assert.NotEqual(t, draw(1234), draw(1235))
}

func TestParamsAlphabetIsCopied(t *testing.T) {
	p := DefaultParams()
	m := newTestModel(t, p, 1)
	p.Alphabet[0] = 'N'
	for i := 0; i < 500; i++ {
		a0, a1 := m.AllelePair()
		require.NotEqual(t, byte('N'), a0)
		require.NotEqual(t, byte('N'), a1)
	}
}
