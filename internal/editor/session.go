// Package editor holds one undo-tracked pricing session per user list and
// exposes the views and edit actions the pricing screens use.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/history"
	"github.com/hublishing/fnsretail-sub001/internal/observability"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
	"github.com/hublishing/fnsretail-sub001/internal/undo"
)

// Session errors.
var (
	// ErrSessionClosed is returned by actions on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrUnknownProduct is returned when an action names a product id
	// that is not in the list.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrInvalidArgument is returned when action input fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	defaultSaveTimeout  = 5 * time.Second
	subscriberQueueSize = 8
)

// Filter selects which effects a View lists. At most one field is set.
type Filter struct {
	EffectType domain.EffectType `json:"effect_type,omitempty"`
	ProductID  string            `json:"product_id,omitempty"`
}

// IsZero reports whether the filter selects every effect.
func (f Filter) IsZero() bool {
	return f.EffectType == "" && f.ProductID == ""
}

// View is the materialized state the pricing screen renders.
type View struct {
	UserID          string              `json:"user_id"`
	Channel         *domain.ChannelInfo `json:"channel,omitempty"`
	Products        []domain.Product    `json:"products"`
	HistoryItems    []history.ItemView  `json:"history_items"`
	FilteredEffects []domain.EffectItem `json:"filtered_effects"`
	CurrentIndex    int                 `json:"current_index"`
	CanUndo         bool                `json:"can_undo"`
	CanRedo         bool                `json:"can_redo"`
	Filter          Filter              `json:"filter"`
}

// Config configures a Session.
type Config struct {
	UserID          string
	Channel         *domain.ChannelInfo
	Store           storage.ProductListStore // nil disables persistence
	Logger          *zap.Logger
	HistoryCapacity int
	EffectCapacity  int
	SaveTimeout     time.Duration
}

// Session owns one undo manager for one user's product list. It is safe
// for concurrent use; actions are serialized.
type Session struct {
	userID string
	store  storage.ProductListStore
	logger *zap.Logger

	mu       sync.Mutex
	undo     *undo.Manager
	products []domain.Product
	channel  *domain.ChannelInfo
	filter   Filter
	dirty    bool // sink fired since the last publish
	loading  bool
	closed   bool

	// onRecorded is set by a mutation for session state that changes only
	// when its edit creates a history entry.
	onRecorded func()

	subMu       sync.Mutex
	subscribers map[int]chan View
	nextSubID   int

	saves       chan []domain.Product
	saveTimeout time.Duration
	done        chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

// NewSession creates a session initialized with products and starts its
// saver goroutine. Call Close to stop it.
func NewSession(cfg Config, products []domain.Product) *Session {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.SaveTimeout
	if timeout <= 0 {
		timeout = defaultSaveTimeout
	}

	s := &Session{
		userID:      cfg.UserID,
		store:       cfg.Store,
		logger:      log.With(zap.String("user_id", cfg.UserID)),
		subscribers: make(map[int]chan View),
		saves:       make(chan []domain.Product, 1),
		saveTimeout: timeout,
		done:        make(chan struct{}),
	}
	if cfg.Channel != nil {
		ch := *cfg.Channel
		s.channel = &ch
	}

	var opts []undo.Option
	opts = append(opts, undo.WithLogger(s.logger))
	if cfg.HistoryCapacity > 0 {
		opts = append(opts, undo.WithHistoryCapacity(cfg.HistoryCapacity))
	}
	if cfg.EffectCapacity > 0 {
		opts = append(opts, undo.WithEffectCapacity(cfg.EffectCapacity))
	}
	s.undo = undo.New(s.onStateChange, opts...)

	// The loaded list is already persisted; only mirror it.
	s.loading = true
	s.undo.Initialize(products)
	s.loading = false
	s.dirty = false

	s.wg.Add(1)
	go s.runSaver()

	observability.RecordSessionOpened()
	return s
}

// UserID returns the owner of the session.
func (s *Session) UserID() string {
	return s.userID
}

// onStateChange is the undo manager's sink. It runs with s.mu held.
func (s *Session) onStateChange(products []domain.Product) {
	s.products = products
	s.dirty = true
	if !s.loading {
		s.queueSave(domain.CloneProducts(products))
	}
}

// queueSave hands products to the saver, replacing any list still waiting.
func (s *Session) queueSave(products []domain.Product) {
	if s.store == nil {
		return
	}
	select {
	case s.saves <- products:
		return
	default:
	}
	select {
	case <-s.saves:
	default:
	}
	select {
	case s.saves <- products:
	default:
	}
}

func (s *Session) runSaver() {
	defer s.wg.Done()
	for {
		select {
		case products := <-s.saves:
			s.save(products)
		case <-s.done:
			select {
			case products := <-s.saves:
				s.save(products)
			default:
			}
			return
		}
	}
}

func (s *Session) save(products []domain.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Save(ctx, s.userID, products)
	observability.RecordPersist(time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Warn("failed to save product list", zap.Int("products", len(products)), zap.Error(err))
	}
}

// View returns the current materialized view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	var effects []domain.EffectItem
	switch {
	case s.filter.EffectType != "":
		effects = s.undo.EffectsByType(s.filter.EffectType)
	case s.filter.ProductID != "":
		effects = s.undo.EffectsByProductID(s.filter.ProductID)
	default:
		effects = s.undo.AllEffects()
	}

	v := View{
		UserID:          s.userID,
		Products:        domain.CloneProducts(s.products),
		HistoryItems:    s.undo.HistoryItems(),
		FilteredEffects: effects,
		CurrentIndex:    s.undo.CurrentIndex(),
		CanUndo:         s.undo.CanUndo(),
		CanRedo:         s.undo.CanRedo(),
		Filter:          s.filter,
	}
	if s.channel != nil {
		ch := *s.channel
		v.Channel = &ch
	}
	return v
}

// publishLocked sends the view to subscribers when the sink fired.
func (s *Session) publishLocked(force bool) {
	if !s.dirty && !force {
		return
	}
	s.dirty = false

	v := s.viewLocked()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- v:
		default:
			// Slow subscriber: drop the oldest view and keep the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Subscribe returns a channel receiving a view after every state change
// and filter change, starting with the current view. Call the returned
// function to unsubscribe.
func (s *Session) Subscribe() (<-chan View, func()) {
	ch := make(chan View, subscriberQueueSize)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	ch <- s.viewLocked()

	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.subMu.Unlock()
	s.mu.Unlock()
	observability.UpdateStreamSubscribers(1)

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
			observability.UpdateStreamSubscribers(-1)
		}
	}
}

// Undo steps back one history entry.
func (s *Session) Undo() (bool, error) {
	return s.navigate(s.undo.Undo)
}

// Redo steps forward one history entry.
func (s *Session) Redo() (bool, error) {
	return s.navigate(s.undo.Redo)
}

// JumpTo moves to the history entry with the given id.
func (s *Session) JumpTo(id string) (bool, error) {
	return s.navigate(func() bool { return s.undo.JumpTo(id) })
}

func (s *Session) navigate(move func() bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	ok := move()
	s.publishLocked(false)
	return ok, nil
}

// CanUndo reports whether Undo would move.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo.CanUndo()
}

// CanRedo reports whether Redo would move.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo.CanRedo()
}

// FilterByType lists only effects of t and clears the product filter.
// An empty t clears filtering.
func (s *Session) FilterByType(t domain.EffectType) error {
	if t != "" {
		parsed, err := domain.ParseEffectType(string(t))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		t = parsed
	}
	s.setFilter(Filter{EffectType: t})
	return nil
}

// FilterByProductID lists only effects referencing id and clears the
// type filter. An empty id clears filtering.
func (s *Session) FilterByProductID(id string) {
	s.setFilter(Filter{ProductID: id})
}

// SetFilter applies f. Setting both fields is rejected.
func (s *Session) SetFilter(f Filter) error {
	if f.EffectType != "" && f.ProductID != "" {
		return ErrInvalidArgument
	}
	if f.EffectType != "" {
		return s.FilterByType(f.EffectType)
	}
	s.FilterByProductID(f.ProductID)
	return nil
}

func (s *Session) setFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.publishLocked(true)
}

// Close stops the saver after flushing the pending list and closes all
// subscriber channels. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.done)
		s.wg.Wait()

		s.subMu.Lock()
		for id, ch := range s.subscribers {
			delete(s.subscribers, id)
			close(ch)
			observability.UpdateStreamSubscribers(-1)
		}
		s.subMu.Unlock()

		observability.RecordSessionClosed()
	})
}
