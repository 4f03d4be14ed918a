// Package ipc is the message-transfer core of an inter-process
// communication facility: it moves a message carrying bytes, capability
// handles, and open files into a destination's shared memory pool under
// the destination's resource budget.
//
// The package re-exports the core types; the mechanics live in the
// internal packages. A minimal transfer:
//
//	cfg := ipc.DefaultConfig()
//	dst, _ := ipc.NewPeer(cfg)
//	user := ipc.NewUserRegistry().Lookup(1000)
//
//	msg, _ := ipc.NewMessage(len(payload), 0, 0, false)
//	dst.Lock()
//	err := msg.Allocate(dst, user)
//	dst.Unlock()
package ipc

import (
	"github.com/vesselos/ipc/internal/fdtable"
	"github.com/vesselos/ipc/internal/handle"
	"github.com/vesselos/ipc/internal/infrastructure/config"
	"github.com/vesselos/ipc/internal/infrastructure/logging"
	"github.com/vesselos/ipc/internal/infrastructure/monitoring"
	"github.com/vesselos/ipc/internal/message"
	"github.com/vesselos/ipc/internal/peer"
	"github.com/vesselos/ipc/internal/pool"
	"github.com/vesselos/ipc/internal/quota"
)

// Core entity and collaborators.
type (
	// Message is one outbound transfer. See message.Message.
	Message = message.Message
	// Layout describes a message's on-wire slice regions.
	Layout = message.Layout
	// Credentials carries the sender's identity.
	Credentials = message.Credentials
	// Peer is a destination process.
	Peer = peer.Info
	// User is a shareable quota accounting handle.
	User = quota.User
	// Handle is a transferable capability reference.
	Handle = handle.Handle
	// File is a shared-ownership open file.
	File = fdtable.File
	// Config holds destination tunables.
	Config = config.Config
	// Logger is the structured logger used for defect reporting.
	Logger = logging.Logger
	// Metrics is the Prometheus metrics collector.
	Metrics = monitoring.Metrics
)

// Re-exported error sentinels of the resource-exhaustion and
// protocol-violation taxonomy.
var (
	ErrQuotaExceeded    = quota.ErrExceeded
	ErrPoolExhausted    = pool.ErrExhausted
	ErrFdSpaceExhausted = fdtable.ErrExhausted
	ErrWriteOutOfRange  = pool.ErrOutOfRange
	ErrAlreadyAllocated = message.ErrAlreadyAllocated
	ErrNotAllocated     = message.ErrNotAllocated
	ErrMessageBusy      = message.ErrBusy
)

// OffsetInvalid is the slice offset of an unallocated message.
const OffsetInvalid = message.OffsetInvalid

// NewMessage creates an unallocated message for the given payload shape.
func NewMessage(nBytes, nFiles, nHandles int, silent bool) (*Message, error) {
	return message.New(nBytes, nFiles, nHandles, silent)
}

// LayoutFor computes the slice layout for a message shape.
func LayoutFor(nBytes, nHandles, nFds int) Layout {
	return message.LayoutFor(nBytes, nHandles, nFds)
}

// NewPeer creates a destination sized from cfg.
func NewPeer(cfg *Config, opts ...peer.Option) (*Peer, error) {
	return peer.New(cfg, opts...)
}

// WithLogger attaches a logger to a peer.
func WithLogger(log *Logger) peer.Option { return peer.WithLogger(log) }

// WithMetrics attaches a metrics collector to a peer.
func WithMetrics(m *Metrics) peer.Option { return peer.WithMetrics(m) }

// NewUserRegistry creates a registry interning quota users by UID.
func NewUserRegistry() *quota.Registry { return quota.NewRegistry() }

// NewFile wraps an open resource with an initial owner reference.
func NewFile(closer interface{ Close() error }) *File { return fdtable.NewFile(closer) }

// DefaultConfig returns the default destination configuration.
func DefaultConfig() *Config { return config.Default() }

// LoadConfig loads destination configuration from the environment.
func LoadConfig() (*Config, error) { return config.Load() }
