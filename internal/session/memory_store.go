// Package session keeps uploads between checkout creation and report
// generation in process memory.
package session

import (
	"context"
	"sync"
	"time"

	"autostat/domain/core"
	"autostat/internal"
	"autostat/models"

	"github.com/coder/quartz"
)

// MemoryStore is a SubmissionRepository backed by a map. Expired entries are
// evicted whenever the store is used and by the optional janitor.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[core.SessionID]*models.Submission
	clock   quartz.Clock
	logger  *internal.Logger
}

// NewMemoryStore creates an empty store reading time from clock
func NewMemoryStore(clock quartz.Clock, logger *internal.Logger) *MemoryStore {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &MemoryStore{
		entries: make(map[core.SessionID]*models.Submission),
		clock:   clock,
		logger:  logger,
	}
}

// Save stores a submission, replacing any entry with the same ID
func (s *MemoryStore) Save(ctx context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	s.entries[sub.ID] = sub
	return nil
}

// Take returns and removes a submission
func (s *MemoryStore) Take(ctx context.Context, id core.SessionID) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	sub, ok := s.entries[id]
	if !ok {
		return nil, core.ErrSubmissionExpired
	}
	delete(s.entries, id)
	return sub, nil
}

// PurgeExpired drops expired entries
func (s *MemoryStore) PurgeExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictLocked(), nil
}

// Len returns the number of live entries
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) evictLocked() int {
	now := s.clock.Now()
	removed := 0
	for id, sub := range s.entries {
		if sub.Expired(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartJanitor purges expired entries every interval until ctx is done
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) quartz.Waiter {
	return s.clock.TickerFunc(ctx, interval, func() error {
		if n, _ := s.PurgeExpired(ctx); n > 0 {
			s.logger.Debug("purged %d expired submissions", n)
		}
		return nil
	}, "session", "janitor")
}
