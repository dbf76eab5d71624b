package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string
	Tags  []string
	Attrs map[string]float64
}

func TestManager_Empty(t *testing.T) {
	m := New[[]int]()

	assert.Equal(t, -1, m.CurrentIndex())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.False(t, m.Undo())
	assert.False(t, m.Redo())
	assert.Empty(t, m.Items())

	_, ok := m.CurrentState()
	assert.False(t, ok)
}

func TestManager_ResetAndPush(t *testing.T) {
	m := New[[]int]()
	m.Reset([]int{1}, "init")

	assert.Equal(t, 0, m.CurrentIndex())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	require.True(t, m.Push([]int{1, 2}, "add 2"))
	require.True(t, m.Push([]int{1, 2, 3}, "add 3"))

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 2, m.CurrentIndex())

	state, ok := m.CurrentState()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, state)

	items := m.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "init", items[0].Description)
	assert.True(t, items[2].IsCurrent)
	assert.False(t, items[0].IsCurrent)
}

func TestManager_PushSkipsEqualSnapshot(t *testing.T) {
	m := New[[]int]()
	m.Reset([]int{1}, "init")

	assert.False(t, m.Push([]int{1}, "same"))
	assert.Equal(t, 1, m.Len())

	assert.True(t, m.Push([]int{1}, "forced", Force()))
	assert.Equal(t, 2, m.Len())
}

func TestManager_UndoRedoRoundTrip(t *testing.T) {
	m := New[[]int]()
	m.Reset([]int{}, "init")

	const n = 5
	for i := 1; i <= n; i++ {
		state, _ := m.CurrentState()
		require.True(t, m.Push(append(state, i), fmt.Sprintf("step %d", i)))
	}

	for i := n - 1; i >= 0; i-- {
		require.True(t, m.Undo())
		state, _ := m.CurrentState()
		assert.Len(t, state, i)
	}
	assert.False(t, m.Undo())

	for i := 1; i <= n; i++ {
		require.True(t, m.Redo())
		state, _ := m.CurrentState()
		assert.Len(t, state, i)
	}
	assert.False(t, m.Redo())

	state, _ := m.CurrentState()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, state)
}

func TestManager_PushTruncatesRedoBranch(t *testing.T) {
	m := New[[]int]()
	m.Reset([]int{0}, "init")
	m.Push([]int{1}, "a")
	m.Push([]int{2}, "b")

	require.True(t, m.Undo())
	require.True(t, m.Undo())
	assert.True(t, m.CanRedo())

	require.True(t, m.Push([]int{9}, "diverge"))
	assert.False(t, m.CanRedo())
	assert.Equal(t, 2, m.Len())

	state, _ := m.CurrentState()
	assert.Equal(t, []int{9}, state)
}

func TestManager_CapacityEviction(t *testing.T) {
	const capacity = 4
	m := New[int](WithCapacity[int](capacity))
	m.Reset(0, "init")

	for i := 1; i <= capacity+3; i++ {
		require.True(t, m.Push(i, fmt.Sprintf("step %d", i)))
		assert.LessOrEqual(t, m.Len(), capacity)
		assert.Equal(t, m.Len()-1, m.CurrentIndex())

		state, _ := m.CurrentState()
		assert.Equal(t, i, state, "current must be the newest push")
	}

	items := m.Items()
	require.Len(t, items, capacity)
	assert.Equal(t, "step 4", items[0].Description)
	assert.Equal(t, "step 7", items[capacity-1].Description)
}

func TestManager_JumpTo(t *testing.T) {
	m := New[int]()
	m.Reset(0, "init")
	m.Push(1, "one")
	m.Push(2, "two")

	items := m.Items()
	require.True(t, m.JumpTo(items[0].ID))
	assert.Equal(t, 0, m.CurrentIndex())
	assert.True(t, m.CanRedo())

	require.True(t, m.JumpTo(items[2].ID))
	state, _ := m.CurrentState()
	assert.Equal(t, 2, state)

	assert.False(t, m.JumpTo("missing"))
	assert.Equal(t, 2, m.CurrentIndex())
}

func TestManager_SnapshotsAreIndependent(t *testing.T) {
	m := New[doc]()
	original := doc{Name: "a", Tags: []string{"x"}, Attrs: map[string]float64{"price": 100}}
	m.Reset(original, "init")

	// Mutating the caller's value must not reach the stored snapshot.
	original.Tags[0] = "mutated"
	original.Attrs["price"] = 1

	got, ok := m.CurrentState()
	require.True(t, ok)
	assert.Equal(t, "x", got.Tags[0])
	assert.Equal(t, 100.0, got.Attrs["price"])

	// Mutating a returned state must not reach the stored snapshot either.
	got.Tags[0] = "again"
	again, _ := m.CurrentState()
	assert.Equal(t, "x", again.Tags[0])
}

func TestManager_CustomCloneAndClock(t *testing.T) {
	clones := 0
	fixed := time.UnixMilli(1704067200000)

	m := New[[]int](
		WithClone(func(v []int) []int {
			clones++
			return append([]int(nil), v...)
		}),
		WithEqual(func(a, b []int) bool { return len(a) == len(b) }),
		WithClock[[]int](func() time.Time { return fixed }),
	)
	m.Reset([]int{1}, "init")

	assert.False(t, m.Push([]int{2}, "same length"))
	assert.Positive(t, clones)
	assert.Equal(t, int64(1704067200000), m.Items()[0].Timestamp)
}

func TestManager_IDsAreUnique(t *testing.T) {
	m := New[int]()
	m.Reset(0, "init")
	for i := 1; i < 20; i++ {
		m.Push(i, "step")
	}

	seen := make(map[string]struct{})
	for _, it := range m.Items() {
		_, dup := seen[it.ID]
		assert.False(t, dup, "duplicate id %s", it.ID)
		seen[it.ID] = struct{}{}
	}
}
