package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAlignsAndTracksUsage(t *testing.T) {
	p, err := New(1024)
	require.NoError(t, err)

	s, err := p.Alloc(13)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Offset())
	assert.Equal(t, 16, s.Size())
	assert.Equal(t, 16, p.BytesInUse())

	s2, err := p.Alloc(8)
	require.NoError(t, err)
	assert.Equal(t, 16, s2.Offset())
	assert.Equal(t, 24, p.BytesInUse())
}

func TestAllocExhaustion(t *testing.T) {
	p, err := New(64)
	require.NoError(t, err)

	_, err = p.Alloc(48)
	require.NoError(t, err)

	_, err = p.Alloc(24)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.Equal(t, 48, p.BytesInUse())
}

func TestReleaseCoalesces(t *testing.T) {
	p, err := New(96)
	require.NoError(t, err)

	a, err := p.Alloc(32)
	require.NoError(t, err)
	b, err := p.Alloc(32)
	require.NoError(t, err)
	c, err := p.Alloc(32)
	require.NoError(t, err)

	// Release out of order; the free list must coalesce back to one span.
	p.Release(a)
	p.Release(c)
	p.Release(b)
	assert.Equal(t, 0, p.BytesInUse())

	full, err := p.Alloc(96)
	require.NoError(t, err)
	assert.Equal(t, 0, full.Offset())
}

func TestReleaseTwiceIsIgnored(t *testing.T) {
	p, err := New(64)
	require.NoError(t, err)

	a, err := p.Alloc(32)
	require.NoError(t, err)
	p.Release(a)
	p.Release(a)
	assert.Equal(t, 0, p.BytesInUse())
}

func TestWriteReadRoundTrip(t *testing.T) {
	p, err := New(64)
	require.NoError(t, err)

	s, err := p.Alloc(16)
	require.NoError(t, err)

	require.NoError(t, p.Write(s, 8, []byte{1, 2, 3, 4}))

	got := make([]byte, 4)
	require.NoError(t, p.Read(s, 8, got))
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestWriteBounds(t *testing.T) {
	p, err := New(64)
	require.NoError(t, err)

	s, err := p.Alloc(16)
	require.NoError(t, err)

	tests := []struct {
		name   string
		offset int
		n      int
	}{
		{"past end", 12, 8},
		{"negative offset", -1, 4},
		{"at capacity boundary", 16, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Write(s, tt.offset, make([]byte, tt.n))
			assert.True(t, errors.Is(err, ErrOutOfRange))
		})
	}
}

func TestWriteToReleasedSlice(t *testing.T) {
	p, err := New(64)
	require.NoError(t, err)

	s, err := p.Alloc(16)
	require.NoError(t, err)
	p.Release(s)

	err = p.Write(s, 0, []byte{1})
	assert.True(t, errors.Is(err, ErrReleased))
}
