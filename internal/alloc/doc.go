// Package alloc acquires the single contiguous buffer behind a fakevar
// dataset.
//
// Sizes come from callers and may be far larger than the process can hold,
// so every request is checked against a limit before any memory is
// touched. A refused request is an error, never a crash.
//
// # Allocator
//
// The [Allocator] type is safe for concurrent use and provides:
//
//   - Limit checking: requests above the configured limit (default
//     [DefaultLimit]) fail with [ErrTooLarge].
//   - Sentinel fill: every byte of a new buffer is [Sentinel] (0x55), so
//     bytes left unwritten by an encoder stand out.
//   - Allocation tracking: buffers are recorded with an optional tag and
//     summarised in [Stats].
//
// # Usage
//
//	a := alloc.New(1 << 20) // refuse anything above 1 MiB
//	buf, err := a.Alloc(246, "dataset")
package alloc
