package fakevar

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Decoded is the structured view of a buffer.
type Decoded struct {
	Dims Dims
	Loci []Locus
}

// Locus is a decoded locus record.
type Locus struct {
	Alleles [2]byte
	Samples []Sample
}

// Sample is a decoded sample record.
type Sample struct {
	Genotype [2]byte
	Calls    []BaseCall
}

// BaseCall is a decoded base call.
type BaseCall struct {
	Value   byte
	Quality byte
}

// Counts holds record totals.
type Counts struct {
	Loci      uint64
	Samples   uint64
	BaseCalls uint64
}

// Counts returns how many records of each level the view holds.
func (d *Decoded) Counts() Counts {
	var c Counts
	for _, locus := range d.Loci {
		c.Loci++
		for _, sample := range locus.Samples {
			c.Samples++
			c.BaseCalls += uint64(len(sample.Calls))
		}
	}
	return c
}

// Decode reads buf as a dataset with the given dimensions. It returns
// ErrBufferSizeMismatch if len(buf) disagrees with the dimensions.
func Decode(buf []byte, dims Dims) (*Decoded, error) {
	return NewDecoder().Decode(buf, dims)
}

// Decode is the Decoder form of the package-level Decode.
func (d *Decoder) Decode(buf []byte, dims Dims) (*Decoded, error) {
	out := &Decoded{Dims: dims}
	var locus *Locus
	var sample *Sample

	err := d.Walk(buf, dims, func(rec Record) error {
		switch rec.Kind {
		case LocusRecord:
			out.Loci = append(out.Loci, Locus{
				Alleles: rec.Symbols,
				Samples: make([]Sample, 0, dims.NumSamples),
			})
			locus = &out.Loci[len(out.Loci)-1]
		case SampleRecord:
			locus.Samples = append(locus.Samples, Sample{
				Genotype: rec.Symbols,
				Calls:    make([]BaseCall, 0, dims.Depth),
			})
			sample = &locus.Samples[len(locus.Samples)-1]
		case BaseCallRecord:
			sample.Calls = append(sample.Calls, BaseCall{Value: rec.Symbols[0], Quality: rec.Symbols[1]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Render writes an indented view of buf to w, two spaces per level:
//
//	loci:
//	  Locus:
//	    alleles: A C
//	    samples:
//	      Sample:
//	        genotype: A C
//	        bases:
//	          Base:
//	            value: A
//	            qual: I
//
// The size check happens before anything is written.
func Render(w io.Writer, buf []byte, dims Dims) error {
	return NewDecoder().Render(w, buf, dims)
}

// RenderString returns the Render output as a string.
func RenderString(buf []byte, dims Dims) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, buf, dims); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Render is the Decoder form of the package-level Render.
func (d *Decoder) Render(w io.Writer, buf []byte, dims Dims) error {
	if _, err := d.checkSize(buf, dims); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	p := &printer{w: bw}
	p.line(0, "loci:")
	err := d.Walk(buf, dims, func(rec Record) error {
		switch rec.Kind {
		case LocusRecord:
			p.line(2, "Locus:")
			p.line(4, "alleles: %s %s", Symbol(rec.Symbols[0]), Symbol(rec.Symbols[1]))
			p.line(4, "samples:")
		case SampleRecord:
			p.line(6, "Sample:")
			p.line(8, "genotype: %s %s", Symbol(rec.Symbols[0]), Symbol(rec.Symbols[1]))
			p.line(8, "bases:")
		case BaseCallRecord:
			p.line(10, "Base:")
			p.line(12, "value: %s", Symbol(rec.Symbols[0]))
			p.line(12, "qual: %s", Symbol(rec.Symbols[1]))
		}
		return p.err
	})
	if err != nil {
		return errors.Wrap(err, "rendering dataset")
	}
	return errors.Wrap(bw.Flush(), "rendering dataset")
}

// printer writes indented lines and remembers the first write error.
type printer struct {
	w   *bufio.Writer
	err error
}

func (p *printer) line(indent int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	if _, err := p.w.WriteString(strings.Repeat(" ", indent)); err != nil {
		p.err = err
		return
	}
	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = err
		return
	}
	p.err = p.w.WriteByte('\n')
}

// Symbol renders a byte as itself when printable, as \xNN otherwise.
func Symbol(b byte) string {
	if b >= 0x21 && b <= 0x7e {
		return string(rune(b))
	}
	return fmt.Sprintf(`\x%02x`, b)
}
