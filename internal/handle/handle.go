package handle

import "sync"

// ID is a destination-local handle identifier, the 8-byte value written
// into a staged message for the destination to read.
type ID uint64

// Handle is a capability reference naming a shared node. The zero value
// names no node and resolves to ID 0.
type Handle struct {
	Node uint64
}

// Table assigns destination-local identifiers for one destination process.
// All methods are safe for concurrent use; installs run without the
// destination's lock.
type Table struct {
	mu    sync.Mutex
	next  ID
	byNod map[uint64]ID
}

// NewTable creates an empty handle table.
func NewTable() *Table {
	return &Table{next: 1, byNod: make(map[uint64]ID)}
}

// Import resolves h to its destination-local identifier, assigning a fresh
// one on first import of the node.
func (t *Table) Import(h Handle) ID {
	if h.Node == 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.byNod[h.Node]; ok {
		return id
	}
	id := t.next
	t.next++
	t.byNod[h.Node] = id
	return id
}

// Len returns the number of imported nodes.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byNod)
}
