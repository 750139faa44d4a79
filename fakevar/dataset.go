package fakevar

import (
	"bytes"
	"io"

	"github.com/google/uuid"

	"github.com/robert-malhotra/go-fakevar/internal/binary"
	"github.com/robert-malhotra/go-fakevar/internal/layout"
	"github.com/robert-malhotra/go-fakevar/internal/model"
)

// DrawStats counts the random draws behind a dataset.
type DrawStats = model.Stats

// Dataset is an encoded buffer together with the parameters needed to
// interpret it. It is immutable once Encode returns and safe to read from
// several goroutines.
type Dataset struct {
	id     uuid.UUID
	cfg    Config
	layout *layout.Layout
	seed   uint64
	seeded bool
	data   []byte
	stats  DrawStats
}

// ID returns the run identifier assigned at encode time.
func (d *Dataset) ID() uuid.UUID {
	return d.id
}

// Config returns the configuration the dataset was generated from. When
// the seed was chosen at random it is filled in, so encoding the returned
// config reproduces the dataset.
func (d *Dataset) Config() Config {
	cfg := d.cfg
	if d.seeded {
		cfg = cfg.WithSeed(d.seed)
	}
	return cfg
}

// Dims returns the dataset's structural parameters.
func (d *Dataset) Dims() Dims {
	return d.layout.Dims()
}

// Seed returns the seed the contents were drawn with. ok is false when the
// contents came from a source injected with WithSource.
func (d *Dataset) Seed() (seed uint64, ok bool) {
	return d.seed, d.seeded
}

// Len returns the buffer length in bytes.
func (d *Dataset) Len() int {
	return len(d.data)
}

// Bytes returns the encoded buffer. The slice is shared and must not be
// modified.
func (d *Dataset) Bytes() []byte {
	return d.data[:len(d.data):len(d.data)]
}

// WriteTo writes the buffer verbatim to w.
func (d *Dataset) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(d.data).WriteTo(w)
}

// Checksum returns the lookup3 checksum of the buffer.
func (d *Dataset) Checksum() uint32 {
	return binary.Lookup3Checksum(d.data)
}

// Stats returns the draw counts recorded while encoding.
func (d *Dataset) Stats() DrawStats {
	return d.stats
}

// Decode decodes the dataset's own buffer.
func (d *Dataset) Decode() (*Decoded, error) {
	return Decode(d.data, d.Dims())
}

// Render writes the indented view of the dataset to w.
func (d *Dataset) Render(w io.Writer) error {
	return Render(w, d.data, d.Dims())
}

// Validate checks every record against the dataset's configuration.
func (d *Dataset) Validate() error {
	return Validate(d.data, d.cfg)
}
