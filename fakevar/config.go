package fakevar

import (
	"os"

	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/robert-malhotra/go-fakevar/internal/layout"
	"github.com/robert-malhotra/go-fakevar/internal/model"
)

// Dims holds the out-of-band structural parameters of a buffer.
type Dims = layout.Dims

// Config describes one generated dataset.
type Config struct {
	NumLoci    uint64 `json:"num_loci"`
	NumSamples uint64 `json:"num_samples"`
	Depth      uint64 `json:"depth"`

	// Alphabet is the ordered set of base symbols, one byte each.
	Alphabet string `json:"alphabet"`

	// ErrorRate is the probability that a base call is drawn from the
	// whole alphabet rather than the sample's genotype.
	ErrorRate float64 `json:"error_rate"`

	// QualityLow and QualityHigh bound quality bytes, inclusive.
	QualityLow  byte `json:"quality_low"`
	QualityHigh byte `json:"quality_high"`

	// Seed makes generation reproducible. When nil a random seed is chosen
	// and reported by Dataset.Seed.
	Seed *uint64 `json:"seed,omitempty"`
}

// DefaultConfig returns one locus of two samples at depth 60 over ACGT.
func DefaultConfig() Config {
	return Config{
		NumLoci:     1,
		NumSamples:  2,
		Depth:       60,
		Alphabet:    model.DefaultAlphabet,
		ErrorRate:   model.DefaultErrorRate,
		QualityLow:  model.DefaultQualityLow,
		QualityHigh: model.DefaultQualityHigh,
	}
}

// Dims returns the structural parameters of the configured dataset.
func (c Config) Dims() Dims {
	return Dims{NumLoci: c.NumLoci, NumSamples: c.NumSamples, Depth: c.Depth}
}

// WithSeed returns a copy of c with the seed set.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

// Validate checks the content parameters and that the dimensions describe
// an addressable buffer.
func (c Config) Validate() error {
	if err := c.modelParams().Validate(); err != nil {
		return kindError(ErrInvalidParameter, err)
	}
	if _, err := layout.New(c.Dims()); err != nil {
		return kindError(ErrInvalidParameter, err)
	}
	return nil
}

func (c Config) modelParams() model.Params {
	return model.Params{
		Alphabet:    []byte(c.Alphabet),
		ErrorRate:   c.ErrorRate,
		QualityLow:  c.QualityLow,
		QualityHigh: c.QualityHigh,
	}
}

// LoadConfig reads a JSON5 config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	return ParseConfig(data)
}

// ParseConfig parses JSON5 config data on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return Config{}, kindError(ErrInvalidParameter, errors.Wrap(err, "parsing config"))
	}
	return cfg, nil
}
