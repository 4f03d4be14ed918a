package ipc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	closed bool
}

func (r *fakeResource) Close() error {
	r.closed = true
	return nil
}

func TestTransferLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pool.Capacity = 4096

	dst, err := NewPeer(cfg)
	require.NoError(t, err)
	user := NewUserRegistry().Lookup(1000)

	msg, err := NewMessage(64, 1, 2, false)
	require.NoError(t, err)
	msg.Handles.Set(0, Handle{Node: 9})
	msg.Handles.Set(1, Handle{Node: 10})
	res := &fakeResource{}
	msg.SetFile(0, NewFile(res))

	dst.Lock()
	err = msg.Allocate(dst, user)
	dst.Unlock()
	require.NoError(t, err)
	assert.NotEqual(t, OffsetInvalid, msg.Offset())

	require.NoError(t, msg.InstallHandles(dst))
	require.NoError(t, msg.InstallFds(dst))

	// Deliver and drain through the destination queue.
	dst.Queue.Push(msg.Node())
	<-dst.Queue.Wait()
	got := dst.Queue.Pop()
	require.NotNil(t, got)
	assert.Same(t, msg, got.Message())

	dst.Lock()
	msg.Deallocate(dst)
	dst.Unlock()
	require.NoError(t, msg.Free())

	// The descriptor table is now the file's only owner.
	assert.False(t, res.closed)
}

func TestQuotaRefusalSurfaces(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quota.MaxBytes = 16

	dst, err := NewPeer(cfg)
	require.NoError(t, err)
	user := NewUserRegistry().Lookup(1000)

	msg, err := NewMessage(64, 0, 0, false)
	require.NoError(t, err)

	dst.Lock()
	err = msg.Allocate(dst, user)
	dst.Unlock()
	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	require.NoError(t, msg.Free())
}

func TestFreeRefusesAllocatedMessage(t *testing.T) {
	dst, err := NewPeer(DefaultConfig())
	require.NoError(t, err)
	user := NewUserRegistry().Lookup(1000)

	msg, err := NewMessage(8, 0, 0, false)
	require.NoError(t, err)

	dst.Lock()
	require.NoError(t, msg.Allocate(dst, user))
	dst.Unlock()

	assert.True(t, errors.Is(msg.Free(), ErrMessageBusy))

	dst.Lock()
	msg.Deallocate(dst)
	dst.Unlock()
	require.NoError(t, msg.Free())
}

func TestLayoutForReferenceShape(t *testing.T) {
	l := LayoutFor(16, 1, 2)
	assert.Equal(t, 16, l.HandleOffset)
	assert.Equal(t, 24, l.FdOffset)
	assert.Equal(t, 32, l.Size)
}
