package fakevar

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-fakevar/internal/binary"
	"github.com/robert-malhotra/go-fakevar/internal/layout"
	"github.com/robert-malhotra/go-fakevar/internal/model"
)

// Encode generates a dataset for cfg.
//
// The buffer is allocated once, at exactly the size the layout predicts,
// and filled in a single depth-first pass: each locus writes its allele
// pair and then its samples, each sample its genotype pair and then its
// base calls. Every record is written through a writer that owns exactly
// its bytes.
//
// Errors wrap ErrInvalidParameter for bad configurations or sizes that do
// not fit in memory, and ErrAllocationFailure when the buffer cannot be
// acquired.
func Encode(cfg Config, opts ...Option) (*Dataset, error) {
	o := applyOptions(opts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lay, err := layout.New(cfg.Dims())
	if err != nil {
		return nil, kindError(ErrInvalidParameter, err)
	}

	ds := &Dataset{
		id:     uuid.New(),
		cfg:    cfg,
		layout: lay,
	}

	src := o.source
	if src == nil {
		ds.seeded = true
		if cfg.Seed != nil {
			ds.seed = *cfg.Seed
		} else {
			ds.seed = rand.Uint64()
		}
		src = model.NewSource(ds.seed)
	}
	m, err := model.New(cfg.modelParams(), src)
	if err != nil {
		return nil, kindError(ErrInvalidParameter, err)
	}

	logger := o.logger.With(zap.Stringer("run", ds.id))
	logger.Debug("computed layout",
		zap.Stringer("dims", lay.Dims()),
		zap.Uint64("base_size", lay.BaseSize()),
		zap.Uint64("sample_size", lay.SampleSize()),
		zap.Uint64("locus_size", lay.LocusSize()),
		zap.Uint64("total_size", lay.TotalSize()),
		zap.Uint64("alloc_limit", o.allocator.Limit()),
	)

	buf, err := o.allocator.Alloc(lay.TotalSize(), ds.id.String())
	if err != nil {
		return nil, kindError(ErrAllocationFailure, err)
	}

	enc := &encoder{layout: lay, model: m}
	if err := enc.fill(binary.NewWriter(buf)); err != nil {
		return nil, errors.Wrap(err, "encoding dataset")
	}

	ds.data = buf
	ds.stats = m.Stats()
	o.metrics.observeEncode(ds)

	logger.Info("encoded dataset",
		zap.Stringer("dims", lay.Dims()),
		zap.Uint64("seed", ds.seed),
		zap.Bool("seeded", ds.seeded),
		zap.Int("bytes", ds.Len()),
		zap.Uint64("base_calls", ds.stats.BaseCalls),
		zap.Uint64("error_calls", ds.stats.ErrorCalls),
		zap.Uint32("checksum", ds.Checksum()),
	)
	return ds, nil
}

// encoder fills a buffer record by record.
type encoder struct {
	layout *layout.Layout
	model  *model.Model
}

func (e *encoder) fill(w *binary.Writer) error {
	dims := e.layout.Dims()
	for i := uint64(0); i < dims.NumLoci; i++ {
		lw, err := w.Sub(e.layout.LocusSize())
		if err != nil {
			return errors.Wrapf(err, "reserving locus %d", i)
		}
		want, err := e.layout.LocusOffset(i)
		if err := checkPos(lw, want, err); err != nil {
			return errors.Wrapf(err, "locus %d", i)
		}
		if err := e.writeLocus(lw, i); err != nil {
			return errors.Wrapf(err, "locus %d", i)
		}
	}
	return w.Finish()
}

func (e *encoder) writeLocus(w *binary.Writer, i uint64) error {
	a0, a1 := e.model.AllelePair()
	if err := w.WritePair(a0, a1); err != nil {
		return errors.Wrap(err, "alleles")
	}

	for s := uint64(0); s < e.layout.Dims().NumSamples; s++ {
		sw, err := w.Sub(e.layout.SampleSize())
		if err != nil {
			return errors.Wrapf(err, "reserving sample %d", s)
		}
		want, err := e.layout.SampleOffset(i, s)
		if err := checkPos(sw, want, err); err != nil {
			return errors.Wrapf(err, "sample %d", s)
		}
		if err := e.writeSample(sw, i, s, a0, a1); err != nil {
			return errors.Wrapf(err, "sample %d", s)
		}
	}
	return w.Finish()
}

func (e *encoder) writeSample(w *binary.Writer, i, s uint64, a0, a1 byte) error {
	g0, g1 := e.model.Genotype(a0, a1)
	if err := w.WritePair(g0, g1); err != nil {
		return errors.Wrap(err, "genotype")
	}

	for b := uint64(0); b < e.layout.Dims().Depth; b++ {
		bw, err := w.Sub(e.layout.BaseSize())
		if err != nil {
			return errors.Wrapf(err, "reserving base %d", b)
		}
		want, err := e.layout.BaseOffset(i, s, b)
		if err := checkPos(bw, want, err); err != nil {
			return errors.Wrapf(err, "base %d", b)
		}
		value, quality := e.model.BaseCall(g0, g1)
		if err := bw.WritePair(value, quality); err != nil {
			return errors.Wrapf(err, "base %d", b)
		}
		if err := bw.Finish(); err != nil {
			return errors.Wrapf(err, "base %d", b)
		}
	}
	return w.Finish()
}

// checkPos fails if w does not start where the layout places its record.
func checkPos(w *binary.Writer, want uint64, err error) error {
	if err != nil {
		return err
	}
	if got := w.Pos(); got != int64(want) {
		return errors.Errorf("writer at offset %d, layout expects %d", got, want)
	}
	return nil
}
