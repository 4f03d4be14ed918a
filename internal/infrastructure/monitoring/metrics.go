// Package monitoring provides Prometheus metrics for the message core.
//
// One Metrics collector is shared by all destinations; per-destination
// series are not labeled to keep cardinality flat.
package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Message lifecycle
	MessagesCreated   prometheus.Counter
	MessagesFreed     prometheus.Counter
	MessagesAllocated prometheus.Counter

	// Resource accounting
	QuotaRefusals  prometheus.Counter
	PoolRefusals   prometheus.Counter
	PoolBytesInUse prometheus.Gauge
	SlicesActive   prometheus.Gauge

	// Installation
	HandlesInstalled prometheus.Counter
	FdsInstalled     prometheus.Counter
	InstallErrors    *prometheus.CounterVec

	// Snapshot for introspection - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for direct inspection.
type Snapshot struct {
	MessagesCreated   int64
	MessagesFreed     int64
	MessagesAllocated int64
	QuotaRefusals     int64
	SlicesActive      int64
}

// NewMetrics creates a metrics collector registered on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector registered on reg. Tests use
// this with a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_messages_created_total",
			Help: "Total number of messages created",
		}),
		MessagesFreed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_messages_freed_total",
			Help: "Total number of messages destroyed",
		}),
		MessagesAllocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_messages_allocated_total",
			Help: "Total number of successful message allocations",
		}),
		QuotaRefusals: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_quota_refusals_total",
			Help: "Total number of allocations refused by the quota ledger",
		}),
		PoolRefusals: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_pool_refusals_total",
			Help: "Total number of allocations refused by the pool",
		}),
		PoolBytesInUse: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ipc_pool_bytes_in_use",
			Help: "Bytes currently allocated across destination pools",
		}),
		SlicesActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ipc_slices_active",
			Help: "Pool slices currently held by in-flight messages",
		}),
		HandlesInstalled: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_handles_installed_total",
			Help: "Total number of handle identifiers written to destinations",
		}),
		FdsInstalled: factory.NewCounter(prometheus.CounterOpts{
			Name: "ipc_fds_installed_total",
			Help: "Total number of file descriptors installed into destinations",
		}),
		InstallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ipc_install_errors_total",
			Help: "Total number of failed install operations",
		}, []string{"stage"}),
	}
}

// RecordCreated increments message creation metrics.
func (m *Metrics) RecordCreated() {
	m.MessagesCreated.Inc()
	m.mu.Lock()
	m.snapshot.MessagesCreated++
	m.mu.Unlock()
}

// RecordFreed increments message destruction metrics.
func (m *Metrics) RecordFreed() {
	m.MessagesFreed.Inc()
	m.mu.Lock()
	m.snapshot.MessagesFreed++
	m.mu.Unlock()
}

// RecordAllocated tracks a successful allocation of sliceBytes.
func (m *Metrics) RecordAllocated(sliceBytes int) {
	m.MessagesAllocated.Inc()
	m.SlicesActive.Inc()
	m.PoolBytesInUse.Add(float64(sliceBytes))
	m.mu.Lock()
	m.snapshot.MessagesAllocated++
	m.snapshot.SlicesActive++
	m.mu.Unlock()
}

// RecordDeallocated tracks a slice release of sliceBytes.
func (m *Metrics) RecordDeallocated(sliceBytes int) {
	m.SlicesActive.Dec()
	m.PoolBytesInUse.Sub(float64(sliceBytes))
	m.mu.Lock()
	m.snapshot.SlicesActive--
	m.mu.Unlock()
}

// RecordQuotaRefusal tracks an over-quota allocation failure.
func (m *Metrics) RecordQuotaRefusal() {
	m.QuotaRefusals.Inc()
	m.mu.Lock()
	m.snapshot.QuotaRefusals++
	m.mu.Unlock()
}

// GetSnapshot returns current metric values.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
