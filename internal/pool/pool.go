package pool

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrExhausted is returned when the pool cannot satisfy an allocation.
	ErrExhausted = errors.New("pool space exhausted")
	// ErrOutOfRange is returned when a write exceeds the slice bounds.
	// It indicates a size-computation defect in the caller.
	ErrOutOfRange = errors.New("write out of slice range")
	// ErrReleased is returned when accessing a slice already returned to the pool.
	ErrReleased = errors.New("slice already released")
)

// Slice is a reserved region of a pool. Slices are created by Pool.Alloc
// and returned with Pool.Release; they are not safe to use afterwards.
type Slice struct {
	offset   int
	size     int
	released bool
}

// Offset returns the slice's byte offset within the pool.
func (s *Slice) Offset() int { return s.offset }

// Size returns the slice's usable size in bytes.
func (s *Slice) Size() int { return s.size }

// span is a free region of the arena, kept sorted by offset.
type span struct {
	offset int
	size   int
}

// Pool is a fixed-capacity arena handing out aligned slices.
// All methods are safe for concurrent use.
type Pool struct {
	mu   sync.Mutex
	data []byte
	free []span
}

// New creates a pool with the given capacity in bytes.
func New(capacity int) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid pool capacity %d", capacity)
	}
	capacity = align8(capacity)
	return &Pool{
		data: make([]byte, capacity),
		free: []span{{offset: 0, size: capacity}},
	}, nil
}

// Capacity returns the total arena size in bytes.
func (p *Pool) Capacity() int { return len(p.data) }

// BytesInUse returns the number of bytes currently allocated.
func (p *Pool) BytesInUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	free := 0
	for _, s := range p.free {
		free += s.size
	}
	return len(p.data) - free
}

// Alloc reserves a slice of at least size bytes, rounded up to 8-byte
// alignment. It returns ErrExhausted when no free region is large enough.
func (p *Pool) Alloc(size int) (*Slice, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid slice size %d", size)
	}
	size = align8(size)

	p.mu.Lock()
	defer p.mu.Unlock()

	// First fit over the sorted free list.
	for i, s := range p.free {
		if s.size < size {
			continue
		}
		slice := &Slice{offset: s.offset, size: size}
		if s.size == size {
			p.free = append(p.free[:i], p.free[i+1:]...)
		} else {
			p.free[i] = span{offset: s.offset + size, size: s.size - size}
		}
		return slice, nil
	}
	return nil, fmt.Errorf("cannot allocate %d bytes: %w", size, ErrExhausted)
}

// Release returns a slice to the pool, coalescing adjacent free regions.
// Releasing the same slice twice is a caller defect and is ignored.
func (p *Pool) Release(s *Slice) {
	if s == nil || s.released {
		return
	}
	s.released = true

	p.mu.Lock()
	defer p.mu.Unlock()

	// Insert sorted by offset.
	i := 0
	for i < len(p.free) && p.free[i].offset < s.offset {
		i++
	}
	p.free = append(p.free, span{})
	copy(p.free[i+1:], p.free[i:])
	p.free[i] = span{offset: s.offset, size: s.size}

	// Coalesce with the next span, then the previous one.
	if i+1 < len(p.free) && p.free[i].offset+p.free[i].size == p.free[i+1].offset {
		p.free[i].size += p.free[i+1].size
		p.free = append(p.free[:i+1], p.free[i+2:]...)
	}
	if i > 0 && p.free[i-1].offset+p.free[i-1].size == p.free[i].offset {
		p.free[i-1].size += p.free[i].size
		p.free = append(p.free[:i], p.free[i+1:]...)
	}
}

// Write copies buf into the slice at the given slice-relative offset.
// The write is bounds-checked against the slice size.
func (p *Pool) Write(s *Slice, offset int, buf []byte) error {
	if s == nil || s.released {
		return ErrReleased
	}
	if offset < 0 || offset+len(buf) > s.size {
		return fmt.Errorf("write of %d bytes at offset %d in %d-byte slice: %w",
			len(buf), offset, s.size, ErrOutOfRange)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	copy(p.data[s.offset+offset:], buf)
	return nil
}

// Read copies from the slice at the given slice-relative offset into buf.
// The destination uses this to consume a staged message.
func (p *Pool) Read(s *Slice, offset int, buf []byte) error {
	if s == nil || s.released {
		return ErrReleased
	}
	if offset < 0 || offset+len(buf) > s.size {
		return fmt.Errorf("read of %d bytes at offset %d in %d-byte slice: %w",
			len(buf), offset, s.size, ErrOutOfRange)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	copy(buf, p.data[s.offset+offset:])
	return nil
}

func align8(n int) int {
	return (n + 7) &^ 7
}
