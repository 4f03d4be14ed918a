// Package message implements the message-transfer core: the lifecycle of
// one outbound message from creation, through resource allocation against
// a destination, to installation and teardown.
//
// Lifecycle:
//
//	m, _ := message.New(nBytes, nFiles, nHandles, false)
//	p.Lock()
//	err := m.Allocate(p, user)     // quota charge + pool slice, atomic
//	p.Unlock()
//	...
//	err = m.InstallHandles(p)      // runs without the peer lock
//	err = m.InstallFds(p)
//	...
//	p.Lock()
//	m.Deallocate(p)                // discharge + release, idempotent
//	p.Unlock()
//	err = m.Free()
//
// Allocation is all-or-nothing: either the quota charge and the pool slice
// both commit, or neither does. Installation writes into the already
// reserved slice; a failed install leaves the slice dirty but accounted,
// and the caller unwinds with Deallocate/Free as usual.
//
// Free refuses to destroy a message that still holds a slice, a quota
// user, a queue linkage, or transaction links; such a call is a caller
// contract breach, reported as ErrBusy, never silently fixed.
package message
