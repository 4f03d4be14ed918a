package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotTracksLifecycle(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordCreated()
	m.RecordCreated()
	m.RecordAllocated(64)
	m.RecordQuotaRefusal()
	m.RecordDeallocated(64)
	m.RecordFreed()

	snap := m.GetSnapshot()
	assert.Equal(t, int64(2), snap.MessagesCreated)
	assert.Equal(t, int64(1), snap.MessagesAllocated)
	assert.Equal(t, int64(1), snap.QuotaRefusals)
	assert.Equal(t, int64(0), snap.SlicesActive)
	assert.Equal(t, int64(1), snap.MessagesFreed)
}

func TestFreshRegistryPerCollector(t *testing.T) {
	// Two collectors must not collide when given separate registries.
	assert.NotPanics(t, func() {
		NewMetricsWith(prometheus.NewRegistry())
		NewMetricsWith(prometheus.NewRegistry())
	})
}
