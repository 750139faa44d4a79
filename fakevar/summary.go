package fakevar

// Summary aggregates a dataset's base calls.
type Summary struct {
	Dims Dims

	BaseCalls uint64

	// Mismatches counts base calls whose value is neither genotype
	// symbol. Error calls that happen to hit the genotype are not
	// counted, so this undercounts the error process.
	Mismatches uint64

	// Heterozygous counts samples whose two genotype symbols differ.
	Heterozygous uint64

	// Composition counts base call values by symbol.
	Composition map[byte]uint64

	Loci []LocusSummary

	qualitySum uint64
}

// LocusSummary aggregates one locus.
type LocusSummary struct {
	Index        uint64
	Alleles      [2]byte
	BaseCalls    uint64
	Mismatches   uint64
	Heterozygous uint64

	qualitySum uint64
}

// MismatchRate returns Mismatches/BaseCalls, or 0 without base calls.
func (s *Summary) MismatchRate() float64 {
	return ratio(s.Mismatches, s.BaseCalls)
}

// MeanQuality returns the mean quality byte, or 0 without base calls.
func (s *Summary) MeanQuality() float64 {
	return ratio(s.qualitySum, s.BaseCalls)
}

// MismatchRate returns the locus's Mismatches/BaseCalls.
func (l *LocusSummary) MismatchRate() float64 {
	return ratio(l.Mismatches, l.BaseCalls)
}

// MeanQuality returns the locus's mean quality byte.
func (l *LocusSummary) MeanQuality() float64 {
	return ratio(l.qualitySum, l.BaseCalls)
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Summarize walks buf and aggregates its base calls.
func Summarize(buf []byte, dims Dims) (*Summary, error) {
	return NewDecoder().Summarize(buf, dims)
}

// Summarize is the Decoder form of the package-level Summarize.
func (d *Decoder) Summarize(buf []byte, dims Dims) (*Summary, error) {
	sum := &Summary{
		Dims:        dims,
		Composition: make(map[byte]uint64),
	}
	var (
		locus    *LocusSummary
		genotype [2]byte
	)

	err := d.Walk(buf, dims, func(rec Record) error {
		switch rec.Kind {
		case LocusRecord:
			sum.Loci = append(sum.Loci, LocusSummary{Index: rec.Locus, Alleles: rec.Symbols})
			locus = &sum.Loci[len(sum.Loci)-1]
		case SampleRecord:
			genotype = rec.Symbols
			if genotype[0] != genotype[1] {
				sum.Heterozygous++
				locus.Heterozygous++
			}
		case BaseCallRecord:
			value, quality := rec.Symbols[0], rec.Symbols[1]
			sum.BaseCalls++
			locus.BaseCalls++
			sum.qualitySum += uint64(quality)
			locus.qualitySum += uint64(quality)
			sum.Composition[value]++
			if value != genotype[0] && value != genotype[1] {
				sum.Mismatches++
				locus.Mismatches++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}
