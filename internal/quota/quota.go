package quota

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExceeded is returned when a charge would push a user past its limits.
var ErrExceeded = errors.New("quota exceeded")

// User identifies a sending user for accounting purposes. User handles are
// freely shareable; messages holding the same user share one ledger account.
type User struct {
	UID uint32
}

// Registry interns User handles by UID.
type Registry struct {
	mu    sync.Mutex
	users map[uint32]*User
}

// NewRegistry creates an empty user registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[uint32]*User)}
}

// Lookup returns the user handle for uid, creating it on first use.
func (r *Registry) Lookup(uid uint32) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[uid]
	if !ok {
		u = &User{UID: uid}
		r.users[uid] = u
	}
	return u
}

// Limits caps the in-flight resources one user may hold against one
// destination.
type Limits struct {
	MaxBytes   int
	MaxHandles int
	MaxFds     int
}

// usage tracks one user's outstanding charges against a destination.
type usage struct {
	bytes   int
	handles int
	fds     int
}

// Ledger accounts in-flight resources for a single destination.
//
// The ledger has no lock of its own: the destination's lock serializes all
// charges and discharges, keeping them atomic with respect to the pool
// allocations they pair with.
type Ledger struct {
	limits Limits
	users  map[uint32]*usage
}

// NewLedger creates a ledger enforcing the given per-user limits.
func NewLedger(limits Limits) *Ledger {
	return &Ledger{
		limits: limits,
		users:  make(map[uint32]*usage),
	}
}

// Charge accounts bytes, handles, and fds against u. It returns ErrExceeded
// and changes nothing if any of the three would exceed the user's limits.
func (l *Ledger) Charge(u *User, bytes, handles, fds int) error {
	st := l.users[u.UID]
	if st == nil {
		st = &usage{}
		l.users[u.UID] = st
	}

	if st.bytes+bytes > l.limits.MaxBytes ||
		st.handles+handles > l.limits.MaxHandles ||
		st.fds+fds > l.limits.MaxFds {
		return fmt.Errorf("uid %d: %w", u.UID, ErrExceeded)
	}

	st.bytes += bytes
	st.handles += handles
	st.fds += fds
	return nil
}

// Discharge reverses a prior charge. The triple must match the charge
// exactly; discharging more than was charged is a caller defect and is
// reported as an error while clamping the account at zero.
func (l *Ledger) Discharge(u *User, bytes, handles, fds int) error {
	st := l.users[u.UID]
	if st == nil || st.bytes < bytes || st.handles < handles || st.fds < fds {
		if st != nil {
			st.bytes = max(0, st.bytes-bytes)
			st.handles = max(0, st.handles-handles)
			st.fds = max(0, st.fds-fds)
		}
		return fmt.Errorf("uid %d: discharge of (%d,%d,%d) exceeds charges",
			u.UID, bytes, handles, fds)
	}

	st.bytes -= bytes
	st.handles -= handles
	st.fds -= fds
	return nil
}

// Usage reports the user's outstanding charges.
func (l *Ledger) Usage(u *User) (bytes, handles, fds int) {
	st := l.users[u.UID]
	if st == nil {
		return 0, 0, 0
	}
	return st.bytes, st.handles, st.fds
}
