// Package effect keeps a bounded log of why product snapshots changed.
package effect

import (
	"time"

	"github.com/google/uuid"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
)

// DefaultCapacity is the number of effects retained when none is configured.
const DefaultCapacity = 100

// Manager is an append-only effect log, independent of the snapshot history.
// It is not safe for concurrent use.
type Manager struct {
	effects  []domain.EffectItem
	capacity int
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity bounds the number of retained effects. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithClock sets the time source for effect timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates an empty Manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add appends an effect and evicts the oldest one when over capacity.
func (m *Manager) Add(effectType domain.EffectType, productIDs []string, description string, payload domain.EffectPayload) domain.EffectItem {
	item := domain.EffectItem{
		ID:          uuid.NewString(),
		Type:        effectType,
		ProductIDs:  append([]string(nil), productIDs...),
		Timestamp:   m.now().UnixMilli(),
		Description: description,
		Payload:     payload,
	}

	m.effects = append(m.effects, item)
	if len(m.effects) > m.capacity {
		m.effects[0] = domain.EffectItem{}
		m.effects = m.effects[1:]
	}
	return copyItem(item)
}

// All returns every effect, oldest first.
func (m *Manager) All() []domain.EffectItem {
	return m.filter(func(domain.EffectItem) bool { return true })
}

// ByProductID returns effects that reference productID.
func (m *Manager) ByProductID(productID string) []domain.EffectItem {
	return m.filter(func(e domain.EffectItem) bool { return e.References(productID) })
}

// ByType returns effects of the given type.
func (m *Manager) ByType(effectType domain.EffectType) []domain.EffectItem {
	return m.filter(func(e domain.EffectItem) bool { return e.Type == effectType })
}

// ByTimeRange returns effects recorded within [start, end] Unix ms (inclusive).
func (m *Manager) ByTimeRange(start, end int64) []domain.EffectItem {
	return m.filter(func(e domain.EffectItem) bool {
		return e.Timestamp >= start && e.Timestamp <= end
	})
}

// Update drops every effect none of whose products appear in current.
// Returns the number of effects removed.
func (m *Manager) Update(current []domain.Product) int {
	live := make(map[string]struct{}, len(current))
	for _, p := range current {
		live[p.ProductID] = struct{}{}
	}

	kept := m.effects[:0]
	removed := 0
	for _, e := range m.effects {
		if referencesAny(e, live) {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	// Clear the abandoned tail.
	for i := len(kept); i < len(m.effects); i++ {
		m.effects[i] = domain.EffectItem{}
	}
	m.effects = kept
	return removed
}

// Reset empties the log.
func (m *Manager) Reset() {
	m.effects = nil
}

// Len returns the number of retained effects.
func (m *Manager) Len() int {
	return len(m.effects)
}

func (m *Manager) filter(keep func(domain.EffectItem) bool) []domain.EffectItem {
	result := make([]domain.EffectItem, 0)
	for _, e := range m.effects {
		if keep(e) {
			result = append(result, copyItem(e))
		}
	}
	return result
}

func referencesAny(e domain.EffectItem, live map[string]struct{}) bool {
	for _, id := range e.ProductIDs {
		if _, ok := live[id]; ok {
			return true
		}
	}
	return false
}

// copyItem detaches the id slice so callers cannot edit the log.
func copyItem(e domain.EffectItem) domain.EffectItem {
	e.ProductIDs = append([]string(nil), e.ProductIDs...)
	return e
}
