// Package fakevar synthesizes mock genomic variant-call data into a
// header-less binary buffer and decodes it back into a readable view.
package fakevar

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrAllocationFailure  = errors.New("buffer allocation failed")
	ErrBufferSizeMismatch = errors.New("buffer size does not match dimensions")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrChecksumMismatch   = errors.New("buffer checksum mismatch")
)

// kindError tags cause with one of the sentinel errors above, keeping
// both reachable through errors.Is.
func kindError(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
