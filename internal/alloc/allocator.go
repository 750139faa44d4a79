package alloc

import (
	"fmt"
	"math"
	"sync"

	"github.com/pkg/errors"
)

// Sentinel is the fill byte of a fresh buffer. Bytes the encoder never
// reaches keep this value, which makes gaps visible in a hex dump.
const Sentinel = 0x55

// DefaultLimit caps a single buffer at 4 GiB.
const DefaultLimit = 4 << 30

var (
	// ErrTooLarge is returned when a requested buffer exceeds the limit.
	ErrTooLarge = errors.New("buffer size exceeds allocation limit")

	// ErrFailed is returned when the runtime refuses the allocation.
	ErrFailed = errors.New("buffer allocation failed")
)

// Allocator hands out sentinel-filled buffers up to a size limit and keeps
// a record of what it has handed out. It is safe for concurrent use.
type Allocator struct {
	mu sync.Mutex

	// limit is the largest single buffer, in bytes.
	limit uint64

	// allocations tracks all allocations made (for debugging)
	allocations []Allocation

	stats Stats
}

// Allocation represents a single buffer handed out.
type Allocation struct {
	Size uint64
	Tag  string // Optional tag for debugging
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64 // Number of buffers handed out
	TotalBytesAlloc  uint64 // Total bytes handed out
	LargestAlloc     uint64 // Largest single buffer
	Rejected         uint64 // Requests refused
}

// New creates an Allocator refusing buffers larger than limit bytes.
// A limit of 0 selects DefaultLimit.
func New(limit uint64) *Allocator {
	if limit == 0 {
		limit = DefaultLimit
	}
	return &Allocator{limit: limit}
}

// Limit returns the largest buffer the allocator will hand out.
func (a *Allocator) Limit() uint64 {
	return a.limit
}

// Alloc returns a buffer of exactly size bytes, every byte set to Sentinel.
// A zero size yields an empty, non-nil buffer.
func (a *Allocator) Alloc(size uint64, tag string) ([]byte, error) {
	if size > a.limit || size > math.MaxInt {
		a.reject()
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes requested, limit %d", size, a.limit)
	}

	buf, err := makeFilled(int(size))
	if err != nil {
		a.reject()
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.allocations = append(a.allocations, Allocation{
		Size: size,
		Tag:  tag,
	})

	a.stats.TotalAllocations++
	a.stats.TotalBytesAlloc += size
	if size > a.stats.LargestAlloc {
		a.stats.LargestAlloc = size
	}

	return buf, nil
}

// makeFilled converts a makeslice panic into ErrFailed. The runtime's
// fatal out-of-memory error cannot be recovered and is not handled here.
func makeFilled(size int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = errors.Wrapf(ErrFailed, "%d bytes: %v", size, r)
		}
	}()

	buf = make([]byte, size)
	for i := range buf {
		buf[i] = Sentinel
	}
	return buf, nil
}

func (a *Allocator) reject() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.Rejected++
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Allocations returns a copy of all allocations made (for debugging).
func (a *Allocator) Allocations() []Allocation {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := make([]Allocation, len(a.allocations))
	copy(result, a.allocations)
	return result
}

func (a Allocation) String() string {
	if a.Tag == "" {
		return fmt.Sprintf("%d bytes", a.Size)
	}
	return fmt.Sprintf("%s: %d bytes", a.Tag, a.Size)
}
