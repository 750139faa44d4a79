// Package model draws the random contents of a fakevar dataset: locus
// alleles, sample genotypes and simulated base calls with a sequencing
// error process.
//
// All draws come from one injected [rand.Source], consumed strictly in
// call order, so a seeded source reproduces a dataset exactly. The package
// holds no global random state.
package model

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParams is returned when model parameters are out of range.
var ErrInvalidParams = errors.New("invalid model parameters")

// Default parameter values.
const (
	DefaultAlphabet    = "ACGT"
	DefaultErrorRate   = 0.02
	DefaultQualityLow  = 0x21 // '!'
	DefaultQualityHigh = 0x7e // '~'
)

// Params configures the draws.
type Params struct {
	// Alphabet is the ordered set of base symbols. Symbols must be distinct.
	Alphabet []byte

	// ErrorRate is the probability that a base call ignores the genotype
	// and is drawn from the whole alphabet instead.
	ErrorRate float64

	// QualityLow and QualityHigh bound the quality byte, inclusive.
	QualityLow  byte
	QualityHigh byte
}

// DefaultParams returns the four-base alphabet with a 2% error rate and
// printable quality scores.
func DefaultParams() Params {
	return Params{
		Alphabet:    []byte(DefaultAlphabet),
		ErrorRate:   DefaultErrorRate,
		QualityLow:  DefaultQualityLow,
		QualityHigh: DefaultQualityHigh,
	}
}

// Validate checks that the parameters describe a usable model.
func (p Params) Validate() error {
	if len(p.Alphabet) == 0 {
		return errors.Wrap(ErrInvalidParams, "alphabet is empty")
	}
	if len(p.Alphabet) > 256 {
		return errors.Wrapf(ErrInvalidParams, "alphabet has %d symbols, at most 256 fit in a byte", len(p.Alphabet))
	}
	if dups := lo.FindDuplicates(p.Alphabet); len(dups) > 0 {
		return errors.Wrapf(ErrInvalidParams, "alphabet %q repeats symbols %q", p.Alphabet, dups)
	}
	if math.IsNaN(p.ErrorRate) || p.ErrorRate < 0 || p.ErrorRate > 1 {
		return errors.Wrapf(ErrInvalidParams, "error rate %v not in [0, 1]", p.ErrorRate)
	}
	if p.QualityLow > p.QualityHigh {
		return errors.Wrapf(ErrInvalidParams, "quality range [%#x, %#x] is empty", p.QualityLow, p.QualityHigh)
	}
	return nil
}

// Contains reports whether sym is in the alphabet.
func (p Params) Contains(sym byte) bool {
	return lo.Contains(p.Alphabet, sym)
}

// Stats counts the draws a model has made.
type Stats struct {
	AllelePairs uint64
	Genotypes   uint64
	BaseCalls   uint64
	ErrorCalls  uint64 // base calls drawn from the whole alphabet
}

// Model draws symbols from an injected random source.
// A Model is not safe for concurrent use.
type Model struct {
	params  Params
	rng     *rand.Rand
	errDist distuv.Bernoulli
	stats   Stats
}

// New creates a model drawing from src.
func New(params Params, src rand.Source) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.Wrap(ErrInvalidParams, "random source is nil")
	}
	params.Alphabet = append([]byte(nil), params.Alphabet...)
	return &Model{
		params:  params,
		rng:     rand.New(src),
		errDist: distuv.Bernoulli{P: params.ErrorRate, Src: src},
	}, nil
}

// NewSource returns the seeded source used for reproducible datasets.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Stats returns the draw counts so far.
func (m *Model) Stats() Stats {
	return m.stats
}

// AllelePair draws a locus's two alleles, independently and uniformly from
// the alphabet. The two may be equal.
func (m *Model) AllelePair() (byte, byte) {
	m.stats.AllelePairs++
	return m.symbol(), m.symbol()
}

// Genotype draws a sample's two genotype symbols, independently and
// uniformly from the locus alleles a0 and a1. The two may be equal.
func (m *Model) Genotype(a0, a1 byte) (byte, byte) {
	m.stats.Genotypes++
	return pick(m.rng, a0, a1), pick(m.rng, a0, a1)
}

// BaseCall draws one read for a sample with genotype g0/g1. With
// probability ErrorRate the value is uniform over the alphabet (and may
// still match the genotype), otherwise uniform over g0/g1. The quality is
// uniform over the quality range regardless of the value.
func (m *Model) BaseCall(g0, g1 byte) (value, quality byte) {
	m.stats.BaseCalls++
	if m.errDist.Rand() == 1 {
		m.stats.ErrorCalls++
		value = m.symbol()
	} else {
		value = pick(m.rng, g0, g1)
	}
	span := int(m.params.QualityHigh) - int(m.params.QualityLow) + 1
	quality = m.params.QualityLow + byte(m.rng.IntN(span))
	return value, quality
}

func (m *Model) symbol() byte {
	return m.params.Alphabet[m.rng.IntN(len(m.params.Alphabet))]
}

func pick(rng *rand.Rand, a, b byte) byte {
	if rng.IntN(2) == 0 {
		return a
	}
	return b
}
