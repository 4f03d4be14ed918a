package fdtable

import (
	"io"
	"sync/atomic"
)

// File is a shared-ownership wrapper around an open resource. Every owner
// holds one reference; the resource closes when the last reference is
// released. Releasing more references than were taken is a caller defect
// and is ignored after the close.
type File struct {
	closer io.Closer
	refs   atomic.Int32
}

// NewFile wraps closer with an initial reference owned by the caller.
func NewFile(closer io.Closer) *File {
	f := &File{closer: closer}
	f.refs.Store(1)
	return f
}

// Ref takes an additional reference and returns f for chaining.
func (f *File) Ref() *File {
	if f == nil {
		return nil
	}
	f.refs.Add(1)
	return f
}

// Release drops one reference, closing the underlying resource when the
// count reaches zero. Close errors are discarded; the resource is gone
// either way.
func (f *File) Release() {
	if f == nil {
		return
	}
	if f.refs.Add(-1) == 0 && f.closer != nil {
		_ = f.closer.Close()
	}
}

// Refs reports the current reference count.
func (f *File) Refs() int {
	if f == nil {
		return 0
	}
	return int(f.refs.Load())
}
