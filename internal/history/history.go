// Package history keeps a bounded linear undo/redo log of full-state snapshots.
//
// Every snapshot is a structural deep copy: callers never get a reference
// to stored state, and stored state never aliases caller state. Values must
// be plain data (no cycles, no shared mutable references the clone function
// cannot see).
package history

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of snapshots retained when none is configured.
const DefaultCapacity = 50

// Item is one committed snapshot.
type Item[T any] struct {
	ID          string // time-ordered UUID
	Timestamp   int64  // Unix ms
	Data        T
	Description string
}

// ItemView describes an item for listing, without its snapshot.
type ItemView struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Description string `json:"description"`
	IsCurrent   bool   `json:"is_current"`
}

// Manager is a linear undo/redo log. currentIndex is -1 for an empty log
// and a valid index otherwise. It is not safe for concurrent use.
type Manager[T any] struct {
	items        []Item[T]
	currentIndex int

	capacity int
	clone    func(T) T
	equal    func(a, b T) bool
	now      func() time.Time
	newID    func() string
}

// Option configures a Manager.
type Option[T any] func(*Manager[T])

// WithCapacity bounds the number of retained snapshots. Values below 1 are ignored.
func WithCapacity[T any](n int) Option[T] {
	return func(m *Manager[T]) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithClone sets the deep-copy function used for snapshots.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(m *Manager[T]) {
		if clone != nil {
			m.clone = clone
		}
	}
}

// WithEqual sets the structural equality used to skip no-op pushes.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(m *Manager[T]) {
		if equal != nil {
			m.equal = equal
		}
	}
}

// WithClock sets the time source for item timestamps.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(m *Manager[T]) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates an empty Manager. Without options it keeps DefaultCapacity
// snapshots, clones through a JSON round trip and compares with reflect.DeepEqual.
func New[T any](opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{
		currentIndex: -1,
		capacity:     DefaultCapacity,
		clone:        jsonClone[T],
		equal:        func(a, b T) bool { return reflect.DeepEqual(a, b) },
		now:          time.Now,
		newID:        newItemID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PushOption modifies a single Push.
type PushOption func(*pushConfig)

type pushConfig struct {
	force bool
}

// Force records the snapshot even when it equals the current one.
func Force() PushOption {
	return func(c *pushConfig) {
		c.force = true
	}
}

// Reset replaces the log with a single snapshot of initial.
func (m *Manager[T]) Reset(initial T, description string) {
	m.items = []Item[T]{m.newItem(initial, description)}
	m.currentIndex = 0
}

// Push commits a snapshot of data after the current position, discarding
// any redo entries. A snapshot equal to the current one is skipped unless
// Force is given. The oldest entry is evicted when capacity is exceeded.
// Reports whether an entry was appended.
func (m *Manager[T]) Push(data T, description string, opts ...PushOption) bool {
	var cfg pushConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	item := m.newItem(data, description)

	if m.currentIndex < len(m.items)-1 {
		// Drop the redo branch; zero the tail so evicted snapshots can be collected.
		for i := m.currentIndex + 1; i < len(m.items); i++ {
			m.items[i] = Item[T]{}
		}
		m.items = m.items[:m.currentIndex+1]
	}

	if !cfg.force && m.currentIndex >= 0 && m.equal(m.items[m.currentIndex].Data, item.Data) {
		return false
	}

	m.items = append(m.items, item)
	m.currentIndex = len(m.items) - 1

	if len(m.items) > m.capacity {
		m.items[0] = Item[T]{}
		m.items = m.items[1:]
		m.currentIndex--
	}
	return true
}

// CanUndo reports whether there is an earlier snapshot.
func (m *Manager[T]) CanUndo() bool {
	return m.currentIndex > 0
}

// CanRedo reports whether there is a later snapshot.
func (m *Manager[T]) CanRedo() bool {
	return m.currentIndex >= 0 && m.currentIndex < len(m.items)-1
}

// Undo moves to the previous snapshot. Call CurrentState for the result.
func (m *Manager[T]) Undo() bool {
	if !m.CanUndo() {
		return false
	}
	m.currentIndex--
	return true
}

// Redo moves to the next snapshot. Call CurrentState for the result.
func (m *Manager[T]) Redo() bool {
	if !m.CanRedo() {
		return false
	}
	m.currentIndex++
	return true
}

// JumpTo moves to the snapshot with the given id. Reports whether it was found.
func (m *Manager[T]) JumpTo(id string) bool {
	for i := range m.items {
		if m.items[i].ID == id {
			m.currentIndex = i
			return true
		}
	}
	return false
}

// CurrentState returns a deep copy of the current snapshot. The boolean
// is false for an empty log.
func (m *Manager[T]) CurrentState() (T, bool) {
	if m.currentIndex < 0 || m.currentIndex >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.clone(m.items[m.currentIndex].Data), true
}

// Items lists the log oldest first, marking the current entry.
func (m *Manager[T]) Items() []ItemView {
	views := make([]ItemView, 0, len(m.items))
	for i, it := range m.items {
		views = append(views, ItemView{
			ID:          it.ID,
			Timestamp:   it.Timestamp,
			Description: it.Description,
			IsCurrent:   i == m.currentIndex,
		})
	}
	return views
}

// CurrentIndex returns the cursor position, -1 when empty.
func (m *Manager[T]) CurrentIndex() int {
	return m.currentIndex
}

// Len returns the number of retained snapshots.
func (m *Manager[T]) Len() int {
	return len(m.items)
}

// Capacity returns the configured retention bound.
func (m *Manager[T]) Capacity() int {
	return m.capacity
}

func (m *Manager[T]) newItem(data T, description string) Item[T] {
	return Item[T]{
		ID:          m.newID(),
		Timestamp:   m.now().UnixMilli(),
		Data:        m.clone(data),
		Description: description,
	}
}

// newItemID returns a time-ordered UUIDv7, falling back to a random UUID.
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// jsonClone deep-copies plain data through a JSON round trip. Values that
// do not survive encoding are returned as the zero value.
func jsonClone[T any](v T) T {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero
	}
	return out
}
