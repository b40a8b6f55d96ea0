package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sink []byte

func TestMemoryCollectorSnapshot(t *testing.T) {
	snap := NewMemoryCollector().Snapshot()
	assert.NotZero(t, snap.HeapAlloc)
	assert.NotZero(t, snap.Sys)
	assert.GreaterOrEqual(t, snap.TotalAlloc, snap.HeapAlloc)
}

func TestMemorySnapshotSince(t *testing.T) {
	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 1<<20)
	after := mc.Snapshot()

	d := after.Since(before)
	assert.GreaterOrEqual(t, d.Allocated, uint64(1<<20))
	assert.GreaterOrEqual(t, after.Sys, before.Sys)
}

func TestMemoryDeltaArithmetic(t *testing.T) {
	t.Parallel()
	before := MemorySnapshot{TotalAlloc: 100, NumGC: 2, PauseTotalNs: 50}
	after := MemorySnapshot{TotalAlloc: 612, NumGC: 5, PauseTotalNs: 80}
	assert.Equal(t, MemoryDelta{Allocated: 512, NumGC: 3, PauseTotalNs: 30}, after.Since(before))
}
