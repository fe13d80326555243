package todo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// fill 创建 n 条待办
func fill(l *List, n int) {
	for i := 0; i < n; i++ {
		l.Create("item")
	}
}

func TestList_CreateAssignsMonotonicIDs(t *testing.T) {
	l := NewList()

	first := l.Create("a")
	second := l.Create("b")
	l.Delete(second.ID)
	l.Update(first.ID, Patch{Completed: boolPtr(true)})
	third := l.Create("c")

	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)
	assert.Equal(t, uint64(3), third.ID, "删除后 ID 不应被复用")
	assert.False(t, third.Completed)
	assert.Equal(t, uint64(3), l.LastID())
}

func TestList_UpdatePartial(t *testing.T) {
	l := NewList()
	item := l.Create("buy milk")

	updated, ok := l.Update(item.ID, Patch{Description: strPtr("buy oat milk")})
	require.True(t, ok)
	assert.Equal(t, "buy oat milk", updated.Description)
	assert.False(t, updated.Completed)

	updated, ok = l.Update(item.ID, Patch{Completed: boolPtr(true)})
	require.True(t, ok)
	assert.Equal(t, "buy oat milk", updated.Description)
	assert.True(t, updated.Completed)

	// 空补丁也是合法的更新
	before := l.All()
	_, ok = l.Update(item.ID, Patch{})
	require.True(t, ok)
	assert.Equal(t, before, l.All())
}

func TestList_NotFoundDoesNotMutate(t *testing.T) {
	l := NewList()
	fill(l, 3)
	l.Delete(2)
	before := l.All()

	_, ok := l.Update(2, Patch{Description: strPtr("x")})
	assert.False(t, ok)
	_, ok = l.Update(99, Patch{Completed: boolPtr(true)})
	assert.False(t, ok)
	_, ok = l.Delete(2)
	assert.False(t, ok)
	_, ok = l.Delete(99)
	assert.False(t, ok)

	assert.Equal(t, before, l.All())
	assert.Equal(t, uint64(3), l.LastID())
}

func TestList_Page(t *testing.T) {
	l := NewList()
	fill(l, 7)

	tests := []struct {
		name string
		page uint64
		size uint64
		ids  []uint64
	}{
		{"first page", 0, 3, []uint64{1, 2, 3}},
		{"second page", 1, 3, []uint64{4, 5, 6}},
		{"partial last page", 2, 3, []uint64{7}},
		{"start equals total", 7, 1, nil},
		{"start beyond total", 5, 3, nil},
		{"zero size", 0, 0, nil},
		{"zero size later page", 4, 0, nil},
		{"whole collection", 0, 7, []uint64{1, 2, 3, 4, 5, 6, 7}},
		{"oversized page", 0, 100, []uint64{1, 2, 3, 4, 5, 6, 7}},
		{"overflowing offset", math.MaxUint64, 2, nil},
		{"huge size", 0, math.MaxUint64, []uint64{1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := l.Page(tt.page, tt.size)
			require.NotNil(t, page)
			ids := make([]uint64, 0, len(page))
			for _, item := range page {
				ids = append(ids, item.ID)
			}
			if tt.ids == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.ids, ids)
			}
		})
	}
}

func TestList_Latest(t *testing.T) {
	l := NewList()
	fill(l, 15)

	latest := l.Latest(LatestLimit)
	require.Len(t, latest, 10)
	for i, item := range latest {
		assert.Equal(t, uint64(15-i), item.ID)
	}

	small := NewList()
	fill(small, 3)
	latest = small.Latest(LatestLimit)
	require.Len(t, latest, 3)
	assert.Equal(t, uint64(3), latest[0].ID)
	assert.Equal(t, uint64(1), latest[2].ID)

	assert.Empty(t, NewList().Latest(LatestLimit))
}

func TestList_AllIsCopy(t *testing.T) {
	l := NewList()
	l.Create("a")

	all := l.All()
	l.Update(1, Patch{Description: strPtr("b")})
	l.Create("c")

	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].Description)
}

func TestList_DeleteCompleted(t *testing.T) {
	l := NewList()
	fill(l, 4)
	l.Update(1, Patch{Completed: boolPtr(true)})
	l.Update(3, Patch{Completed: boolPtr(true)})

	ids := l.DeleteCompleted()
	assert.Equal(t, []uint64{1, 3}, ids)
	assert.Equal(t, 2, l.Len())

	stats := l.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 0, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, uint64(4), stats.LastID)
}

func TestList_SnapshotRestore(t *testing.T) {
	l := NewList()
	fill(l, 5)
	l.Delete(5)
	l.Update(2, Patch{Completed: boolPtr(true)})

	snapshot := l.Snapshot()
	assert.Equal(t, uint64(5), snapshot.LastID)
	require.Len(t, snapshot.Items, 4)

	restored := NewList()
	restored.Restore(snapshot)
	assert.Equal(t, l.All(), restored.All())
	assert.Equal(t, uint64(6), restored.Create("next").ID)
}

func TestList_RestoreNeverLowersCounter(t *testing.T) {
	l := NewList()
	l.Restore(Snapshot{
		LastID: 2,
		Items:  []Todo{{ID: 1}, {ID: 9, Description: "stale counter"}},
	})

	assert.Equal(t, uint64(9), l.LastID())
	assert.Equal(t, uint64(10), l.Create("x").ID)
}

func TestList_Reset(t *testing.T) {
	l := NewList()
	fill(l, 3)
	l.Reset()

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, uint64(0), l.LastID())
	assert.Equal(t, uint64(1), l.Create("fresh").ID)
}
