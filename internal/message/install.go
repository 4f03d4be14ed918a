package message

import (
	"encoding/binary"
	"errors"

	"go.uber.org/zap"

	"github.com/vesselos/ipc/internal/peer"
	"github.com/vesselos/ipc/internal/pool"
)

// InstallHandles writes the destination-local identifier of every handle
// carried by the message into the slice's handle-identifier region. The
// inflight batch resolves identifiers against the destination's handle
// table in chunks; each chunk is written at the running offset before the
// next one is produced. A write failure aborts immediately; chunks already
// written stay in the slice, which the caller discards via Deallocate.
//
// Runs without the peer lock, typically on the consuming side.
func (m *Message) InstallHandles(p *peer.Info) error {
	if m.slice == nil {
		return ErrNotAllocated
	}

	layout := LayoutFor(m.nBytes, m.nHandles, m.nFiles)
	offset := layout.HandleOffset
	cursor := 0
	var buf []byte

	for {
		ids, next, ok := m.Handles.Walk(p.Handles, cursor)
		if !ok {
			break
		}

		buf = buf[:0]
		for _, id := range ids {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(id))
		}
		if err := p.Pool.Write(m.slice, offset, buf); err != nil {
			m.reportWriteError(p, "handles", err)
			return err
		}

		offset += len(buf)
		cursor = next
	}

	if mt := p.Metrics(); mt != nil {
		mt.HandlesInstalled.Add(float64(m.nHandles))
	}
	return nil
}

// InstallFds transfers the message's files into the destination's
// descriptor space and publishes the descriptor numbers in the slice's
// descriptor-number region. Ordering guarantees the destination's table
// never holds a slot bound to no file:
//
//  1. Reserve one fresh slot per file; any failure releases every slot
//     reserved so far and aborts.
//  2. Write all descriptor numbers into the slice in one buffer; on
//     failure release all slots, none of which is bound yet.
//  3. Only then bind each slot to its file. Binding takes an additional
//     reference per file; the message keeps its own references until Free.
//
// Runs without the peer lock, typically on the consuming side.
func (m *Message) InstallFds(p *peer.Info) error {
	if m.slice == nil {
		return ErrNotAllocated
	}

	fds := make([]int, m.nFiles)
	for i := range fds {
		fd, err := p.Fds.Reserve()
		if err != nil {
			for j := i - 1; j >= 0; j-- {
				p.Fds.Unreserve(fds[j])
			}
			if mt := p.Metrics(); mt != nil {
				mt.InstallErrors.WithLabelValues("fds").Inc()
			}
			return err
		}
		fds[i] = fd
	}

	buf := make([]byte, 0, m.nFiles*fdNumSize)
	for _, fd := range fds {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(fd))
	}

	layout := LayoutFor(m.nBytes, m.nHandles, m.nFiles)
	if err := p.Pool.Write(m.slice, layout.FdOffset, buf); err != nil {
		for _, fd := range fds {
			p.Fds.Unreserve(fd)
		}
		m.reportWriteError(p, "fds", err)
		return err
	}

	for i, fd := range fds {
		p.Fds.Bind(fd, m.files[i])
	}

	if mt := p.Metrics(); mt != nil {
		mt.FdsInstalled.Add(float64(m.nFiles))
	}
	return nil
}

// reportWriteError logs slice-write failures. An out-of-range write means
// the layout arithmetic disagrees with the slice size, a core defect
// rather than a caller condition.
func (m *Message) reportWriteError(p *peer.Info, stage string, err error) {
	if errors.Is(err, pool.ErrOutOfRange) {
		p.Log().Error("slice layout defect",
			zap.String("stage", stage),
			zap.Int("bytes", m.nBytes),
			zap.Int("handles", m.nHandles),
			zap.Int("files", m.nFiles),
			zap.Error(err))
	} else {
		p.Log().Warn("slice write failed",
			zap.String("stage", stage),
			zap.Error(err))
	}
	if mt := p.Metrics(); mt != nil {
		mt.InstallErrors.WithLabelValues(stage).Inc()
	}
}
