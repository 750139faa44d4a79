// Package layout computes record sizes and byte offsets for the fakevar
// binary format.
//
// A buffer holds no header. Its structure is fully determined by three
// out-of-band dimensions ([Dims]): the number of loci, the number of samples
// per locus and the read depth per sample. The nested records are:
//
//	Dataset = Locus × NumLoci
//	Locus   = [allele0][allele1] Sample × NumSamples
//	Sample  = [genotype0][genotype1] BaseCall × Depth
//	BaseCall = [value][quality]
//
// Every field is one byte wide, so
//
//	size(BaseCall) = 2
//	size(Sample)   = 2 + Depth·2
//	size(Locus)    = 2 + NumSamples·size(Sample)
//	size(Dataset)  = NumLoci·size(Locus)
//
// # Overflow
//
// All multiplications and additions are checked. A layout whose total does
// not fit in an int (the largest addressable slice length) is rejected with
// [ErrOverflow] instead of wrapping.
//
// # Usage
//
// Both the encoder and the decoder derive offsets from the same [Layout]:
//
//	l, err := layout.New(layout.Dims{NumLoci: 1, NumSamples: 2, Depth: 60})
//	total := l.TotalSize()            // 246
//	off, err := l.BaseOffset(0, 1, 0) // start of sample 1's first call
package layout
