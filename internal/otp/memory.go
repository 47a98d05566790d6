package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	code     string
	issuedAt time.Time
}

// MemoryStore keeps codes in process memory. It suits development and tests;
// codes do not survive a restart and are not shared between replicas.
// Entries are kept for retention past expiry, like the redis store, and are
// swept on Issue once that has passed.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	retention time.Duration
	now       func() time.Time
	entries   map[string]entry
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:       ttl,
		retention: time.Hour,
		now:       time.Now,
		entries:   make(map[string]entry),
	}
}

// WithClock replaces the time source. Call before the store is shared.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Issue(_ context.Context, email string) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.entries[email] = entry{code: code, issuedAt: now}
	return code, nil
}

// sweep drops entries past retention, at most once per ttl. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for email, e := range s.entries {
		if now.Sub(e.issuedAt) > s.ttl+s.retention {
			delete(s.entries, email)
		}
	}
}

func (s *MemoryStore) Verify(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok || e.code != code {
		return ErrInvalidCode
	}
	delete(s.entries, email)
	if s.now().Sub(e.issuedAt) > s.ttl {
		return ErrCodeExpired
	}
	return nil
}
