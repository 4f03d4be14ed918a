// Package quota tracks in-flight resource accounting per user and destination.
//
// Each destination owns one Ledger. Before a sender may stage a message in the
// destination's pool, the ledger charges the sending user for the message's
// bytes, handles, and file descriptors; the charge is reversed when the
// message is deallocated. Charges and discharges must be serialized by the
// destination's lock, which also serializes pool allocation, so the
// charge-then-allocate sequence is atomic with respect to other senders.
//
// Users are shared handles: the same *User may be held by any number of
// in-flight messages concurrently. Lookup goes through a process-wide
// Registry keyed by UID.
package quota
