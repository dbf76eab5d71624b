// Package undo composes the snapshot history and the effect log behind a
// single API used by editing sessions.
//
// A Manager holds a working copy of the product list. Callers stage a new
// list and record a change; the manager decides whether the change is
// relevant, commits a snapshot and an effect, and hands the committed list
// to the sink. Undo, Redo and JumpTo move through committed snapshots and
// prune effects that no longer reference a live product.
package undo

import (
	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/effect"
	"github.com/hublishing/fnsretail-sub001/internal/history"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
)

// InitialDescription labels the snapshot created by Initialize.
const InitialDescription = "initial state"

// Sink receives every committed product list. It gets its own copy.
type Sink func(products []domain.Product)

// Change describes why the working copy changed.
type Change struct {
	Type        domain.EffectType
	ProductIDs  []string
	Description string
	Payload     domain.EffectPayload

	// Force records the change even when nothing differs.
	Force bool
	// CompareAll skips the pricing field comparison and relies on full
	// structural equality instead. Used by edits that touch no pricing field.
	CompareAll bool
}

// pricingEffects are compared over pricingFieldsEqual only.
var pricingEffects = map[domain.EffectType]bool{
	domain.EffectPriceChange:    true,
	domain.EffectDiscountChange: true,
	domain.EffectCouponChange:   true,
}

// NewChange builds a Change with the recording policy of its effect type.
func NewChange(effectType domain.EffectType, productIDs []string, description string, payload domain.EffectPayload) Change {
	return Change{
		Type:        effectType,
		ProductIDs:  productIDs,
		Description: description,
		Payload:     payload,
		Force:       effectType.AlwaysRecords(),
		CompareAll:  !pricingEffects[effectType],
	}
}

// Manager is not safe for concurrent use.
type Manager struct {
	history *history.Manager[[]domain.Product]
	effects *effect.Manager
	working []domain.Product
	sink    Sink
	logger  *zap.Logger

	historyOpts []history.Option[[]domain.Product]
	effectOpts  []effect.Option
}

// Option configures a Manager.
type Option func(*Manager)

// WithHistoryCapacity bounds the number of retained snapshots.
func WithHistoryCapacity(n int) Option {
	return func(m *Manager) {
		m.historyOpts = append(m.historyOpts, history.WithCapacity[[]domain.Product](n))
	}
}

// WithEffectCapacity bounds the number of retained effects.
func WithEffectCapacity(n int) Option {
	return func(m *Manager) {
		m.effectOpts = append(m.effectOpts, effect.WithCapacity(n))
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Manager that reports committed lists to sink. sink may be nil.
func New(sink Sink, opts ...Option) *Manager {
	m := &Manager{
		sink:   sink,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	hopts := append([]history.Option[[]domain.Product]{
		history.WithClone(domain.CloneProducts),
		history.WithEqual(domain.ProductsEqual),
	}, m.historyOpts...)
	m.history = history.New(hopts...)
	m.effects = effect.New(m.effectOpts...)
	return m
}

// Initialize replaces the history with a single snapshot of products,
// clears the effect log and emits the list.
func (m *Manager) Initialize(products []domain.Product) {
	m.working = domain.CloneProducts(products)
	m.history.Reset(m.working, InitialDescription)
	m.effects.Reset()
	m.logger.Debug("history initialized", zap.Int("products", len(products)))
	m.emit()
}

// Stage replaces the working copy without recording anything.
func (m *Manager) Stage(products []domain.Product) {
	m.working = domain.CloneProducts(products)
}

// WorkingCopy returns a copy of the staged list.
func (m *Manager) WorkingCopy() []domain.Product {
	return domain.CloneProducts(m.working)
}

// Commit stages products and records change against them.
func (m *Manager) Commit(products []domain.Product, change Change) bool {
	m.Stage(products)
	return m.RecordChange(change)
}

// RecordChange commits the working copy when it differs from the last
// committed snapshot. It reports whether a history entry was created; a
// false result means no entry, no effect and no sink call.
func (m *Manager) RecordChange(change Change) bool {
	last, ok := m.history.CurrentState()
	if !ok {
		m.logger.Warn("change recorded before initialize", zap.String("effect_type", change.Type.String()))
		return false
	}

	if !change.Force && !change.CompareAll && len(last) == len(m.working) && pricingFieldsEqual(last, m.working) {
		m.skip(change)
		return false
	}

	var pushOpts []history.PushOption
	if change.Force {
		pushOpts = append(pushOpts, history.Force())
	}
	if !m.history.Push(m.working, change.Description, pushOpts...) {
		m.skip(change)
		return false
	}

	m.effects.Add(change.Type, change.ProductIDs, change.Description, change.Payload)
	observability.RecordHistoryCommit(change.Type.String())
	m.logger.Debug("change recorded",
		zap.String("effect_type", change.Type.String()),
		zap.Int("products", len(change.ProductIDs)),
		zap.Int("index", m.history.CurrentIndex()))

	m.emit()
	return true
}

func (m *Manager) skip(change Change) {
	observability.RecordHistoryDedup(change.Type.String())
	m.logger.Debug("change skipped, nothing relevant changed", zap.String("effect_type", change.Type.String()))
}

// CanUndo reports whether Undo would move. A log holding only the
// initial snapshot has nothing to undo or redo.
func (m *Manager) CanUndo() bool {
	return m.history.Len() > 1 && m.history.CanUndo()
}

// CanRedo reports whether Redo would move.
func (m *Manager) CanRedo() bool {
	return m.history.Len() > 1 && m.history.CanRedo()
}

// Undo restores the previous snapshot.
func (m *Manager) Undo() bool {
	ok := m.CanUndo() && m.history.Undo()
	observability.RecordNavigation("undo", ok)
	if ok {
		m.restore()
	}
	return ok
}

// Redo restores the next snapshot.
func (m *Manager) Redo() bool {
	ok := m.CanRedo() && m.history.Redo()
	observability.RecordNavigation("redo", ok)
	if ok {
		m.restore()
	}
	return ok
}

// JumpTo restores the snapshot with the given history item id.
func (m *Manager) JumpTo(id string) bool {
	ok := m.history.JumpTo(id)
	observability.RecordNavigation("jump", ok)
	if ok {
		m.restore()
	}
	return ok
}

func (m *Manager) restore() {
	state, ok := m.history.CurrentState()
	if !ok {
		return
	}
	m.working = state
	m.emit()

	pruned := m.effects.Update(m.working)
	observability.RecordEffectsPruned(pruned)
	m.logger.Debug("history moved",
		zap.Int("index", m.history.CurrentIndex()),
		zap.Int("effects_pruned", pruned))
}

func (m *Manager) emit() {
	if m.sink != nil {
		m.sink(domain.CloneProducts(m.working))
	}
}

// HistoryItems lists committed snapshots oldest first.
func (m *Manager) HistoryItems() []history.ItemView {
	return m.history.Items()
}

// AllEffects returns the effect log oldest first.
func (m *Manager) AllEffects() []domain.EffectItem {
	return m.effects.All()
}

// EffectsByType returns effects of one type.
func (m *Manager) EffectsByType(effectType domain.EffectType) []domain.EffectItem {
	return m.effects.ByType(effectType)
}

// EffectsByProductID returns effects that reference productID.
func (m *Manager) EffectsByProductID(productID string) []domain.EffectItem {
	return m.effects.ByProductID(productID)
}

// CurrentIndex returns the history cursor, -1 before Initialize.
func (m *Manager) CurrentIndex() int {
	return m.history.CurrentIndex()
}

// CurrentState returns a copy of the committed snapshot at the cursor.
func (m *Manager) CurrentState() ([]domain.Product, bool) {
	return m.history.CurrentState()
}
