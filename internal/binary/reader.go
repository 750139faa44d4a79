package binary

import (
	"github.com/pkg/errors"
)

// ErrOutOfBounds is returned when a read or sub-range falls outside a
// reader's range.
var ErrOutOfBounds = errors.New("read outside bounded range")

// Reader is a read-only cursor over an exact byte range. It never reads
// outside the range it was created with and never modifies the bytes.
type Reader struct {
	buf  []byte
	base int64 // absolute offset of buf[0]
	pos  int
}

// NewReader creates a reader over the whole of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// At returns a reader over the n bytes starting at off, relative to the
// start of r's range. The new reader has its own position.
func (r *Reader) At(off, n uint64) (*Reader, error) {
	size := uint64(r.Len())
	if off > size || n > size-off {
		return nil, errors.Wrapf(ErrOutOfBounds, "range [%d, %d+%d) in %d bytes at %d",
			off, off, n, size, r.base)
	}
	start := int(off)
	end := start + int(n)
	return &Reader{
		buf:  r.buf[start:end:end],
		base: r.base + int64(start),
	}, nil
}

// Pos returns the absolute read position relative to the root buffer.
func (r *Reader) Pos() int64 {
	return r.base + int64(r.pos)
}

// Len returns the size of the reader's range.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return r.Len() - r.pos
}

// ReadPair reads two single-byte symbols.
func (r *Reader) ReadPair() (uint8, uint8, error) {
	if r.Remaining() < 2 {
		return 0, 0, errors.Wrapf(ErrOutOfBounds, "reading pair at %d with %d remaining",
			r.Pos(), r.Remaining())
	}
	a, b := r.buf[r.pos], r.buf[r.pos+1]
	r.pos += 2
	return a, b, nil
}
