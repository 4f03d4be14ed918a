// Package pool implements a destination-owned shared memory pool.
//
// Each destination owns one pool. Senders stage message payloads by
// allocating a slice of the pool, writing into it, and handing the slice
// offset to the destination, which reads the staged bytes directly.
//
// Components:
//   - Pool: fixed-capacity arena with first-fit slice allocation
//   - Slice: a reserved, fixed-size region of the arena
//
// Allocation sizes are rounded up to 8 bytes so consecutive slices stay
// aligned for direct reads. Writes are bounds-checked against the slice;
// an out-of-range write indicates a size-computation defect in the caller,
// not a recoverable condition.
package pool
