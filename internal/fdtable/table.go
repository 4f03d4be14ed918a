package fdtable

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned when no descriptor slot is free.
var ErrExhausted = errors.New("descriptor space exhausted")

type slotState uint8

const (
	slotFree slotState = iota
	slotReserved
	slotBound
)

type slot struct {
	state slotState
	file  *File
}

// Table is one process's descriptor space. All methods are safe for
// concurrent use.
type Table struct {
	mu    sync.Mutex
	slots []slot
}

// NewTable creates a descriptor table with the given number of slots.
func NewTable(capacity int) (*Table, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid descriptor table capacity %d", capacity)
	}
	return &Table{slots: make([]slot, capacity)}, nil
}

// Reserve claims the lowest free descriptor number without binding it to a
// file. Reserved slots are invisible to lookups until bound.
func (t *Table) Reserve() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.slots {
		if t.slots[i].state == slotFree {
			t.slots[i].state = slotReserved
			return i, nil
		}
	}
	return -1, ErrExhausted
}

// Unreserve frees a reserved-but-unbound slot. Unreserving a bound or free
// slot is a caller defect and is ignored.
func (t *Table) Unreserve(fd int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if fd >= 0 && fd < len(t.slots) && t.slots[fd].state == slotReserved {
		t.slots[fd].state = slotFree
	}
}

// Bind attaches a file to a reserved slot, taking an additional reference
// on the file for the table. Binding an unreserved slot panics: install
// ordering guarantees the slot was reserved first.
func (t *Table) Bind(fd int, f *File) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if fd < 0 || fd >= len(t.slots) || t.slots[fd].state != slotReserved {
		panic(fmt.Sprintf("fdtable: bind of unreserved descriptor %d", fd))
	}
	t.slots[fd] = slot{state: slotBound, file: f.Ref()}
}

// Get returns the file bound to fd, or nil if the slot is free or only
// reserved. The returned reference stays owned by the table.
func (t *Table) Get(fd int) *File {
	t.mu.Lock()
	defer t.mu.Unlock()

	if fd < 0 || fd >= len(t.slots) {
		return nil
	}
	return t.slots[fd].file
}

// Close unbinds fd and releases the table's reference on its file.
func (t *Table) Close(fd int) {
	t.mu.Lock()
	if fd < 0 || fd >= len(t.slots) || t.slots[fd].state != slotBound {
		t.mu.Unlock()
		return
	}
	f := t.slots[fd].file
	t.slots[fd] = slot{}
	t.mu.Unlock()

	f.Release()
}

// InUse counts reserved and bound slots.
func (t *Table) InUse() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i := range t.slots {
		if t.slots[i].state != slotFree {
			n++
		}
	}
	return n
}
