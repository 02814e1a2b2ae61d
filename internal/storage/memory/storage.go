package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
)

// DefaultQuotaBytes mirrors the usual per-origin localStorage limit
const DefaultQuotaBytes = 5 * 1024 * 1024

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	origins map[model.Origin]map[string][]byte
	used    map[model.Origin]int
	quota   int
}

// Option configures the in-memory storage
type Option func(*Storage)

// WithQuota sets the per-origin byte limit. Zero or negative disables it.
func WithQuota(bytes int) Option {
	return func(s *Storage) {
		s.quota = bytes
	}
}

// New creates a new in-memory storage instance
func New(opts ...Option) *Storage {
	s := &Storage{
		origins: make(map[model.Origin]map[string][]byte),
		used:    make(map[model.Origin]int),
		quota:   DefaultQuotaBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetItem(ctx context.Context, origin model.Origin, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.origins[origin][key]
	if !ok {
		return nil, model.ErrItemNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Storage) SetItem(ctx context.Context, origin model.Origin, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.origins[origin]
	if !ok {
		items = make(map[string][]byte)
		s.origins[origin] = items
	}

	used := s.used[origin]
	if old, exists := items[key]; exists {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if s.quota > 0 && used > s.quota {
		return model.ErrQuotaExceeded
	}

	items[key] = append([]byte(nil), value...)
	s.used[origin] = used
	return nil
}

func (s *Storage) RemoveItem(ctx context.Context, origin model.Origin, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.origins[origin]
	old, ok := items[key]
	if !ok {
		return nil
	}
	delete(items, key)
	s.used[origin] -= len(key) + len(old)
	return nil
}

func (s *Storage) Keys(ctx context.Context, origin model.Origin) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.origins[origin]))
	for k := range s.origins[origin] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Used returns the number of bytes stored for the origin
func (s *Storage) Used(origin model.Origin) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used[origin]
}
