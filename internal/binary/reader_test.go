package binary

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderReadPair(t *testing.T) {
	r := NewReader([]byte{'A', 'C', 'G'})

	a, b, err := r.ReadPair()
	require.NoError(t, err)
	assert.Equal(t, uint8('A'), a)
	assert.Equal(t, uint8('C'), b)

	_, _, err = r.ReadPair()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, int64(2), r.Pos())
}

func TestReaderAt(t *testing.T) {
	r := NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7})

	sub, err := r.At(4, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), sub.Pos())
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, int64(0), r.Pos(), "At does not move the parent")

	a, b, err := sub.ReadPair()
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 5}, []uint8{a, b})
	_, _, err = sub.ReadPair()
	assert.True(t, errors.Is(err, ErrOutOfBounds), "sub reader is bounded")

	nested, err := sub.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), nested.Pos())
}

func TestReaderAtOutOfBounds(t *testing.T) {
	r := NewReader(make([]byte, 8))

	tests := []struct {
		name string
		off  uint64
		n    uint64
	}{
		{"past end", 9, 0},
		{"overlaps end", 6, 3},
		{"huge length", 1, ^uint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.At(tt.off, tt.n)
			assert.True(t, errors.Is(err, ErrOutOfBounds))
		})
	}

	end, err := r.At(8, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, end.Len())
}
