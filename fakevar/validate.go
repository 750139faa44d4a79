package fakevar

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/robert-malhotra/go-fakevar/internal/binary"
)

// MaxViolations caps the violations Validate reports individually.
const MaxViolations = 32

// Validate decodes buf with cfg's dimensions and checks every record
// against cfg's content parameters:
//
//   - both alleles of a locus are in the alphabet
//   - both genotype symbols of a sample are one of the locus alleles
//   - every base call value is in the alphabet
//   - every quality lies within [QualityLow, QualityHigh]
//
// Size and parameter errors are returned as from Walk. Content violations
// each wrap ErrInvalidRecord and are combined into one error; use
// multierr.Errors to list them. After MaxViolations the rest are counted,
// not listed.
func Validate(buf []byte, cfg Config) error {
	return NewDecoder().Validate(buf, cfg)
}

// Validate is the Decoder form of the package-level Validate.
func (d *Decoder) Validate(buf []byte, cfg Config) error {
	params := cfg.modelParams()
	if err := params.Validate(); err != nil {
		return kindError(ErrInvalidParameter, err)
	}

	var (
		violations error
		count      int
		alleles    [2]byte
	)
	report := func(err error) {
		count++
		if count <= MaxViolations {
			violations = multierr.Append(violations, err)
		}
	}

	err := d.Walk(buf, cfg.Dims(), func(rec Record) error {
		switch rec.Kind {
		case LocusRecord:
			alleles = rec.Symbols
			for _, a := range rec.Symbols {
				if !params.Contains(a) {
					report(errors.Wrapf(ErrInvalidRecord, "locus %d at %d: allele %s not in alphabet",
						rec.Locus, rec.Offset, Symbol(a)))
				}
			}
		case SampleRecord:
			for _, g := range rec.Symbols {
				if g != alleles[0] && g != alleles[1] {
					report(errors.Wrapf(ErrInvalidRecord, "locus %d sample %d at %d: genotype %s not among alleles %s/%s",
						rec.Locus, rec.Sample, rec.Offset, Symbol(g), Symbol(alleles[0]), Symbol(alleles[1])))
				}
			}
		case BaseCallRecord:
			value, quality := rec.Symbols[0], rec.Symbols[1]
			if !params.Contains(value) {
				report(errors.Wrapf(ErrInvalidRecord, "locus %d sample %d base %d at %d: value %s not in alphabet",
					rec.Locus, rec.Sample, rec.Base, rec.Offset, Symbol(value)))
			}
			if quality < params.QualityLow || quality > params.QualityHigh {
				report(errors.Wrapf(ErrInvalidRecord, "locus %d sample %d base %d at %d: quality %#x outside [%#x, %#x]",
					rec.Locus, rec.Sample, rec.Base, rec.Offset+1, quality, params.QualityLow, params.QualityHigh))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if count > MaxViolations {
		violations = multierr.Append(violations,
			errors.Wrapf(ErrInvalidRecord, "%d more violations not listed", count-MaxViolations))
	}
	if violations != nil {
		d.metrics.observeDecodeFailure("invalid_record")
	}
	return violations
}

// VerifyChecksum compares buf against a checksum previously reported by
// Dataset.Checksum, returning ErrChecksumMismatch when they differ.
func VerifyChecksum(buf []byte, want uint32) error {
	if !binary.VerifyLookup3(buf, want) {
		return errors.Wrapf(ErrChecksumMismatch, "got %#08x, want %#08x", binary.Lookup3Checksum(buf), want)
	}
	return nil
}
