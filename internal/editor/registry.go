package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	Store          storage.ProductListStore
	Channels       storage.ChannelStore // optional
	DefaultChannel string               // channel name for new sessions
	Logger         *zap.Logger

	HistoryCapacity int
	EffectCapacity  int
	SaveTimeout     time.Duration
}

// Registry keeps one Session per user, created on first access.
type Registry struct {
	cfg    RegistryConfig
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		cfg:      cfg,
		logger:   log,
		sessions: make(map[string]*Session),
	}
}

// Get returns the user's session, loading the saved list on first access.
// A user with no saved list starts with an empty one.
func (r *Registry) Get(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidArgument)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	products, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	channel, err := r.defaultChannel(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrSessionClosed
	}
	// Another request may have opened the session while we were loading.
	if s, ok := r.sessions[userID]; ok {
		return s, nil
	}

	s := NewSession(Config{
		UserID:          userID,
		Channel:         channel,
		Store:           r.cfg.Store,
		Logger:          r.logger,
		HistoryCapacity: r.cfg.HistoryCapacity,
		EffectCapacity:  r.cfg.EffectCapacity,
		SaveTimeout:     r.cfg.SaveTimeout,
	}, products)
	r.sessions[userID] = s

	r.logger.Info("editor session opened", zap.String("user_id", userID), zap.Int("products", len(products)))
	return s, nil
}

func (r *Registry) load(ctx context.Context, userID string) ([]domain.Product, error) {
	if r.cfg.Store == nil {
		return nil, nil
	}
	products, err := r.cfg.Store.Load(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load product list: %w", err)
	}
	return products, nil
}

func (r *Registry) defaultChannel(ctx context.Context) (*domain.ChannelInfo, error) {
	if r.cfg.Channels == nil || r.cfg.DefaultChannel == "" {
		return nil, nil
	}
	ch, err := r.cfg.Channels.GetByName(ctx, r.cfg.DefaultChannel)
	if errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("default channel not configured", zap.String("channel", r.cfg.DefaultChannel))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load default channel: %w", err)
	}
	return ch, nil
}

// Remove closes and forgets the user's session, if any.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close closes every session, flushing pending saves. Get fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	sessions := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		sessions = append(sessions, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
