package message

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vesselos/ipc/internal/fdtable"
	"github.com/vesselos/ipc/internal/handle"
	"github.com/vesselos/ipc/internal/peer"
	"github.com/vesselos/ipc/internal/pool"
	"github.com/vesselos/ipc/internal/queue"
	"github.com/vesselos/ipc/internal/quota"
)

var (
	// ErrAlreadyAllocated is returned when Allocate is called on a message
	// that already holds a slice. Re-allocation is a caller defect.
	ErrAlreadyAllocated = errors.New("message already allocated")
	// ErrNotAllocated is returned when an install runs before Allocate.
	ErrNotAllocated = errors.New("message not allocated")
	// ErrBusy is returned by Free when the message still holds a slice,
	// a quota user, a queue linkage, or transaction links.
	ErrBusy = errors.New("message still holds live resources")
)

// OffsetInvalid is the slice offset of an unallocated message.
const OffsetInvalid = -1

// Unset sentinels for credentials.
const (
	NoUID = ^uint32(0)
	NoGID = ^uint32(0)
)

// Credentials carries the sender's identity. The core records but never
// interprets it; the destination reads it when framing the delivered
// message header.
type Credentials struct {
	UID uint32
	GID uint32
	PID uint32
	TID uint32
}

// TransactionLink is the linkage used by the multi-destination transaction
// mechanism layered above this core. The core never follows these
// pointers; it only requires them cleared before Free.
type TransactionLink struct {
	Next    *Message
	Handle  *handle.Handle
	RawPeer *peer.Info
}

// Message is one outbound transfer: a byte payload, a batch of capability
// handles, and a set of open files, staged into a destination's pool.
//
// The payload shape is fixed at creation. Exactly one owner mutates a
// message at a time; the destination's lock covers only Allocate and
// Deallocate.
type Message struct {
	// Destination is the destination node identifier, informational here.
	Destination uint64
	// Creds is the sender identity, initialized to unset sentinels.
	Creds Credentials
	// Transaction is owned by the transaction layer above this core.
	Transaction TransactionLink
	// Handles is the batch of capability handles carried by the message.
	Handles handle.Inflight

	nBytes   int
	nHandles int
	nFiles   int

	offset int
	user   *quota.User
	slice  *pool.Slice
	files  []*fdtable.File
	node   queue.Node
}

// New creates an unallocated message for the given payload shape. The
// silent flag marks the delivery-queue node so queuing the message never
// wakes a blocked reader.
func New(nBytes, nFiles, nHandles int, silent bool) (*Message, error) {
	if nBytes < 0 || nFiles < 0 || nHandles < 0 {
		return nil, fmt.Errorf("invalid message shape (%d bytes, %d files, %d handles)",
			nBytes, nFiles, nHandles)
	}

	m := &Message{
		Creds:    Credentials{UID: NoUID, GID: NoGID},
		nBytes:   nBytes,
		nHandles: nHandles,
		nFiles:   nFiles,
		offset:   OffsetInvalid,
		files:    make([]*fdtable.File, nFiles),
	}
	m.Handles.Init(nHandles)

	kind := queue.Normal
	if silent {
		kind = queue.Silent
	}
	m.node.Init(kind, m)

	return m, nil
}

// Bytes returns the payload byte count.
func (m *Message) Bytes() int { return m.nBytes }

// HandleCount returns the number of handles the message carries.
func (m *Message) HandleCount() int { return m.nHandles }

// FileCount returns the number of files the message carries.
func (m *Message) FileCount() int { return m.nFiles }

// Offset returns the slice offset within the destination pool, or
// OffsetInvalid while unallocated. The destination frames the delivered
// header from this.
func (m *Message) Offset() int { return m.offset }

// Node returns the delivery-queue linkage.
func (m *Message) Node() *queue.Node { return &m.node }

// SetFile stores a file in slot i, taking ownership of one reference.
// A previously stored file in the slot is released.
func (m *Message) SetFile(i int, f *fdtable.File) {
	m.files[i].Release()
	m.files[i] = f
}

// File returns the file held in slot i, or nil if the slot is empty.
func (m *Message) File(i int) *fdtable.File { return m.files[i] }

// Allocate charges the quota ledger for the message's shape and reserves
// a pool slice sized by LayoutFor, all-or-nothing: a pool refusal rolls
// the quota charge back before returning. The caller must hold p's lock.
func (m *Message) Allocate(p *peer.Info, u *quota.User) error {
	if m.user != nil || m.slice != nil {
		p.Log().Error("allocate on already-allocated message",
			zap.Stringer("peer", p.ID),
			zap.Uint64("destination", m.Destination))
		return ErrAlreadyAllocated
	}

	if err := p.Quota.Charge(u, m.nBytes, m.nHandles, m.nFiles); err != nil {
		if mt := p.Metrics(); mt != nil {
			mt.RecordQuotaRefusal()
		}
		return err
	}

	layout := LayoutFor(m.nBytes, m.nHandles, m.nFiles)
	slice, err := p.Pool.Alloc(layout.Size)
	if err != nil {
		// Roll the charge back so the failure leaves no trace.
		if derr := p.Quota.Discharge(u, m.nBytes, m.nHandles, m.nFiles); derr != nil {
			p.Log().Error("rollback discharge failed", zap.Error(derr))
		}
		if mt := p.Metrics(); mt != nil {
			mt.PoolRefusals.Inc()
		}
		return err
	}

	m.user = u
	m.slice = slice
	m.offset = slice.Offset()
	if mt := p.Metrics(); mt != nil {
		mt.RecordAllocated(slice.Size())
	}
	return nil
}

// Deallocate discharges the quota charged at allocation and returns the
// slice to the pool. It is a no-op on an unallocated message, so calling
// it twice is safe and never double-discharges. The caller must hold p's
// lock. Must run before Free whenever Allocate succeeded.
func (m *Message) Deallocate(p *peer.Info) {
	if m.slice != nil {
		if err := p.Quota.Discharge(m.user, m.nBytes, m.nHandles, m.nFiles); err != nil {
			p.Log().Error("quota discharge mismatch", zap.Error(err))
		}
		size := m.slice.Size()
		p.Pool.Release(m.slice)
		m.slice = nil
		if mt := p.Metrics(); mt != nil {
			mt.RecordDeallocated(size)
		}
	}
	m.user = nil
}

// Free destroys the message: remaining file references are released
// exactly once, the handle batch is dropped, and the queue node must be
// unlinked. A message still holding a slice, a quota user, a queue
// linkage, or transaction links is a caller contract breach; Free refuses
// it with ErrBusy and destroys nothing. Free on nil is a no-op.
func (m *Message) Free() error {
	if m == nil {
		return nil
	}

	switch {
	case m.slice != nil:
		return fmt.Errorf("%w: pool slice not deallocated", ErrBusy)
	case m.user != nil:
		return fmt.Errorf("%w: quota user not released", ErrBusy)
	case m.node.Queued():
		return fmt.Errorf("%w: still linked on a delivery queue", ErrBusy)
	case m.Transaction.Next != nil || m.Transaction.Handle != nil || m.Transaction.RawPeer != nil:
		return fmt.Errorf("%w: transaction links not cleared", ErrBusy)
	}

	for i, f := range m.files {
		if f != nil {
			f.Release()
			m.files[i] = nil
		}
	}
	m.Handles.Destroy()
	return nil
}
