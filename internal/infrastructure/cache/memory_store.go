package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryStore implements Store in process memory.
// State is not shared between instances.
type InMemoryStore struct {
	entries sync.Map // map[string]*entry
	logger  *zap.Logger
	now     func() time.Time
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// InMemoryStoreOption configures an InMemoryStore
type InMemoryStoreOption func(*InMemoryStore)

// WithStoreLogger sets the logger
func WithStoreLogger(logger *zap.Logger) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.logger = logger
	}
}

// WithStoreClock overrides the time source used for expiry
func WithStoreClock(now func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// NewInMemoryStore creates a store and starts its cleanup goroutine
func NewInMemoryStore(opts ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		logger: zap.NewNop(),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupExpired()

	return s
}

// Get retrieves a value; expired entries count as misses
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		atomic.AddInt64(&s.misses, 1)
		return nil, false, nil
	}
	e := v.(*entry)
	if e.isExpired(s.now()) {
		s.entries.Delete(key)
		atomic.AddInt64(&s.misses, 1)
		return nil, false, nil
	}
	atomic.AddInt64(&s.hits, 1)
	return e.value, true, nil
}

// Set stores a copy of value
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	s.entries.Store(key, &entry{value: buf, expiresAt: s.now().Add(ttl)})
	return nil
}

// Delete removes keys
func (s *InMemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.entries.Delete(k)
	}
	return nil
}

// Stats returns hit and miss counters
func (s *InMemoryStore) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *InMemoryStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

func (s *InMemoryStore) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						s.logger.Error("Panic in cache cleanup", zap.Any("panic", r))
					}
				}()
				s.doCleanup()
			}()
		}
	}
}

func (s *InMemoryStore) doCleanup() int {
	now := s.now()
	removed := 0
	s.entries.Range(func(key, value any) bool {
		if value.(*entry).isExpired(now) {
			s.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		s.logger.Debug("Cache cleanup completed", zap.Int("removed", removed))
	}
	return removed
}
