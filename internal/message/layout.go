package message

// Region element sizes on the wire. Handle identifiers are 8 bytes;
// descriptor numbers are 4-byte little-endian integers.
const (
	handleIDSize = 8
	fdNumSize    = 4
)

// Layout describes the three sub-regions of a message slice: the byte
// payload, the handle-identifier table, and the descriptor-number table.
// Each region is independently rounded up to 8 bytes so the next one
// starts aligned, giving
//
//	payload   at PayloadOffset, nBytes long
//	handles   at HandleOffset, nHandles x 8 bytes
//	fd table  at FdOffset, nFds x 4 bytes
//
// Size is the total slice size to request from the pool.
type Layout struct {
	PayloadOffset int
	HandleOffset  int
	FdOffset      int
	Size          int
}

// LayoutFor computes the slice layout for a message shape. The descriptor
// region scales by element size like the other two regions:
// align8(nFds * 4).
func LayoutFor(nBytes, nHandles, nFds int) Layout {
	handleOffset := align8(nBytes)
	fdOffset := handleOffset + align8(nHandles*handleIDSize)
	return Layout{
		PayloadOffset: 0,
		HandleOffset:  handleOffset,
		FdOffset:      fdOffset,
		Size:          fdOffset + align8(nFds*fdNumSize),
	}
}

// HandleRegionLen returns the byte length of the handle-identifier table.
func (l Layout) HandleRegionLen() int { return l.FdOffset - l.HandleOffset }

func align8(n int) int {
	return (n + 7) &^ 7
}
