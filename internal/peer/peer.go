// Package peer models one destination process of the message core.
//
// An Info bundles everything a sender touches when staging a message for
// a destination: the shared memory pool, the quota ledger, the handle
// table, the descriptor table, and the delivery queue. A single exclusive
// lock per destination serializes pool allocation and quota accounting;
// destinations make progress independently of each other.
package peer

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vesselos/ipc/internal/fdtable"
	"github.com/vesselos/ipc/internal/handle"
	"github.com/vesselos/ipc/internal/infrastructure/config"
	"github.com/vesselos/ipc/internal/infrastructure/logging"
	"github.com/vesselos/ipc/internal/infrastructure/monitoring"
	"github.com/vesselos/ipc/internal/pool"
	"github.com/vesselos/ipc/internal/queue"
	"github.com/vesselos/ipc/internal/quota"
)

// Info is the per-destination state. Pool allocation and quota accounting
// are guarded by the peer lock; the pool's write primitive, the handle
// table, and the descriptor table synchronize themselves so installs can
// run without the lock.
type Info struct {
	ID uuid.UUID

	mu      sync.Mutex
	Pool    *pool.Pool
	Quota   *quota.Ledger
	Handles *handle.Table
	Fds     *fdtable.Table
	Queue   *queue.Queue

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// Option configures optional peer collaborators.
type Option func(*Info)

// WithLogger attaches a logger for defect reporting.
func WithLogger(log *logging.Logger) Option {
	return func(p *Info) { p.log = log }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(p *Info) { p.metrics = m }
}

// New creates a destination sized from cfg.
func New(cfg *config.Config, opts ...Option) (*Info, error) {
	pl, err := pool.New(cfg.Pool.Capacity)
	if err != nil {
		return nil, err
	}
	fds, err := fdtable.NewTable(cfg.Fd.TableSize)
	if err != nil {
		return nil, err
	}

	p := &Info{
		ID:   uuid.New(),
		Pool: pl,
		Quota: quota.NewLedger(quota.Limits{
			MaxBytes:   cfg.Quota.MaxBytes,
			MaxHandles: cfg.Quota.MaxHandles,
			MaxFds:     cfg.Quota.MaxFds,
		}),
		Handles: handle.NewTable(),
		Fds:     fds,
		Queue:   queue.New(),
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Lock takes the destination's exclusive lock. Callers must hold it
// across Allocate/Deallocate so the quota charge and the pool allocation
// stay atomic with respect to other senders.
func (p *Info) Lock() { p.mu.Lock() }

// Unlock releases the destination's exclusive lock.
func (p *Info) Unlock() { p.mu.Unlock() }

// Log returns the peer's logger, never nil.
func (p *Info) Log() *logging.Logger { return p.log }

// Metrics returns the peer's metrics collector, or nil if none attached.
func (p *Info) Metrics() *monitoring.Metrics { return p.metrics }
