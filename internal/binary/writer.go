// Package binary provides bounded byte cursors for writing and reading
// fakevar buffers.
package binary

import (
	"github.com/pkg/errors"
)

var (
	// ErrShortBuffer is returned when a write or reservation would run past
	// the end of a writer's range.
	ErrShortBuffer = errors.New("write past end of bounded range")

	// ErrUnfilled is returned by Finish when a writer's range was not
	// written completely.
	ErrUnfilled = errors.New("bounded range not completely written")
)

// Writer is a cursor over an exact byte range. It advances strictly left
// to right and never writes outside its range. Nested records are written
// through sub-writers obtained from Sub, which own exactly the bytes
// reserved for them.
type Writer struct {
	buf  []byte
	base int64 // absolute offset of buf[0]
	pos  int
}

// NewWriter creates a writer over the whole of buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Pos returns the absolute write position relative to the root buffer.
func (w *Writer) Pos() int64 {
	return w.base + int64(w.pos)
}

// Len returns the size of the writer's range.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Remaining returns the number of bytes left to write.
func (w *Writer) Remaining() int {
	return w.Len() - w.pos
}

// WritePair writes two single-byte symbols.
func (w *Writer) WritePair(a, b uint8) error {
	if w.Remaining() < 2 {
		return errors.Wrapf(ErrShortBuffer, "writing pair at %d with %d remaining",
			w.Pos(), w.Remaining())
	}
	w.buf[w.pos] = a
	w.buf[w.pos+1] = b
	w.pos += 2
	return nil
}

// Sub reserves the next n bytes and returns a writer that owns exactly
// that range. The parent's position moves past the reservation at once,
// so the parent can never write into a child's bytes.
func (w *Writer) Sub(n uint64) (*Writer, error) {
	if n > uint64(w.Remaining()) {
		return nil, errors.Wrapf(ErrShortBuffer, "reserving %d bytes at %d with %d remaining",
			n, w.Pos(), w.Remaining())
	}
	start := w.pos
	end := start + int(n)
	w.pos = end
	return &Writer{
		buf:  w.buf[start:end:end],
		base: w.base + int64(start),
	}, nil
}

// Finish reports whether the writer's range was written completely.
func (w *Writer) Finish() error {
	if rem := w.Remaining(); rem != 0 {
		return errors.Wrapf(ErrUnfilled, "%d of %d bytes left at %d", rem, w.Len(), w.Pos())
	}
	return nil
}
