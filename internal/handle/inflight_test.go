package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAssignsStableIDs(t *testing.T) {
	tbl := NewTable()

	a := tbl.Import(Handle{Node: 100})
	b := tbl.Import(Handle{Node: 200})
	assert.NotEqual(t, a, b)

	// Re-importing the same node yields the same destination-local ID.
	assert.Equal(t, a, tbl.Import(Handle{Node: 100}))
	assert.Equal(t, 2, tbl.Len())
}

func TestTableNilHandle(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, ID(0), tbl.Import(Handle{}))
	assert.Equal(t, 0, tbl.Len())
}

func TestInflightInlineStorage(t *testing.T) {
	var f Inflight
	f.Init(4)

	for i := 0; i < 4; i++ {
		f.Set(i, Handle{Node: uint64(i + 1)})
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint64(i+1), f.At(i).Node)
	}
}

func TestInflightSpillStorage(t *testing.T) {
	var f Inflight
	n := inlineEntries + 5
	f.Init(n)

	for i := 0; i < n; i++ {
		f.Set(i, Handle{Node: uint64(i + 1)})
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, uint64(i+1), f.At(i).Node)
	}
}

func TestWalkProducesAllIDsInChunks(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		chunks []int
	}{
		{"empty batch", 0, nil},
		{"single entry", 1, []int{1}},
		{"exactly one chunk", inlineEntries, []int{inlineEntries}},
		{"spills into second chunk", inlineEntries + 5, []int{inlineEntries, 5}},
		{"three chunks", 2*inlineEntries + 1, []int{inlineEntries, inlineEntries, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable()
			var f Inflight
			f.Init(tt.count)
			for i := 0; i < tt.count; i++ {
				f.Set(i, Handle{Node: uint64(i + 1)})
			}

			var got []ID
			var sizes []int
			cursor := 0
			for {
				ids, next, ok := f.Walk(tbl, cursor)
				if !ok {
					break
				}
				got = append(got, ids...)
				sizes = append(sizes, len(ids))
				cursor = next
			}

			assert.Equal(t, tt.chunks, sizes)
			require.Len(t, got, tt.count)
			seen := make(map[ID]bool)
			for _, id := range got {
				assert.NotZero(t, id)
				assert.False(t, seen[id], "duplicate id %d", id)
				seen[id] = true
			}
		})
	}
}

func TestWalkResolvesAgainstSharedTable(t *testing.T) {
	tbl := NewTable()
	pre := tbl.Import(Handle{Node: 42})

	var f Inflight
	f.Init(1)
	f.Set(0, Handle{Node: 42})

	ids, _, ok := f.Walk(tbl, 0)
	require.True(t, ok)
	require.Len(t, ids, 1)
	assert.Equal(t, pre, ids[0])
}

func TestDestroyEmptiesBatch(t *testing.T) {
	var f Inflight
	f.Init(inlineEntries + 1)
	f.Destroy()

	assert.Zero(t, f.Len())
	_, _, ok := f.Walk(NewTable(), 0)
	assert.False(t, ok)
}
