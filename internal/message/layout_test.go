package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		name                    string
		bytes, handles, fds     int
		handleOff, fdOff, total int
	}{
		{"empty message", 0, 0, 0, 0, 0, 0},
		{"payload only", 10, 0, 0, 16, 16, 16},
		{"aligned payload", 16, 0, 0, 16, 16, 16},
		{"one handle", 16, 1, 0, 16, 24, 24},
		{"reference shape", 16, 1, 2, 16, 24, 32},
		{"odd everything", 5, 3, 1, 8, 32, 40},
		{"fd region scales by element size", 0, 0, 4, 0, 0, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LayoutFor(tt.bytes, tt.handles, tt.fds)
			assert.Equal(t, 0, l.PayloadOffset)
			assert.Equal(t, tt.handleOff, l.HandleOffset)
			assert.Equal(t, tt.fdOff, l.FdOffset)
			assert.Equal(t, tt.total, l.Size)
		})
	}
}

func TestLayoutRegionsDoNotOverlap(t *testing.T) {
	l := LayoutFor(13, 5, 3)

	assert.GreaterOrEqual(t, l.HandleOffset, 13)
	assert.GreaterOrEqual(t, l.FdOffset, l.HandleOffset+5*handleIDSize)
	assert.GreaterOrEqual(t, l.Size, l.FdOffset+3*fdNumSize)
	assert.Equal(t, 5*handleIDSize, l.HandleRegionLen())

	// All boundaries stay 8-byte aligned.
	assert.Zero(t, l.HandleOffset%8)
	assert.Zero(t, l.FdOffset%8)
	assert.Zero(t, l.Size%8)
}
