package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hublishing/fnsretail-sub001/internal/domain"
	"github.com/hublishing/fnsretail-sub001/internal/storage"
)

// ChannelStore is an in-memory implementation of storage.ChannelStore.
type ChannelStore struct {
	mu       sync.RWMutex
	channels map[string]*domain.ChannelInfo // keyed by channel_name
}

// NewChannelStore creates a new in-memory channel store.
func NewChannelStore() *ChannelStore {
	return &ChannelStore{
		channels: make(map[string]*domain.ChannelInfo),
	}
}

// Insert adds a channel. Returns ErrDuplicateKey if channel_name exists.
func (s *ChannelStore) Insert(_ context.Context, ch *domain.ChannelInfo) error {
	if ch == nil || ch.ChannelName == "" || !ch.Type.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.channels[ch.ChannelName]; exists {
		return storage.ErrDuplicateKey
	}

	chCopy := *ch
	s.channels[ch.ChannelName] = &chCopy
	return nil
}

// GetByName retrieves a channel by name. Returns ErrNotFound if not exists.
func (s *ChannelStore) GetByName(_ context.Context, name string) (*domain.ChannelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, exists := s.channels[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	chCopy := *ch
	return &chCopy, nil
}

// List retrieves all channels ordered by name.
func (s *ChannelStore) List(_ context.Context) ([]domain.ChannelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ChannelInfo, 0, len(s.channels))
	for _, ch := range s.channels {
		result = append(result, *ch)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ChannelName < result[j].ChannelName
	})

	return result, nil
}

var _ storage.ChannelStore = (*ChannelStore)(nil)
