package eventlog

import (
	"context"
	"sync"
	"time"

	"railhook/internal/webhook"
)

// InMemoryStore keeps entries in process memory. Used in unit tests and as a
// reference implementation of the Store contract.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) LastProcessedEvent(_ context.Context, authenticationCode string) (webhook.EventName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		last  webhook.EventName
		lastA time.Time
		found bool
	)
	for _, e := range s.entries {
		if e.AuthenticationCode != authenticationCode || !e.WasProcessed {
			continue
		}
		if !found || !e.CreatedAt.Before(lastA) {
			last = e.EventName
			lastA = e.CreatedAt
			found = true
		}
	}
	return last, nil
}

func (s *InMemoryStore) WasEventProcessed(_ context.Context, authenticationCode string, event webhook.EventName) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.AuthenticationCode == authenticationCode && e.EventName == event && e.WasProcessed {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) FindByClient(_ context.Context, clientID, authenticationCode string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.ClientID != clientID {
			continue
		}
		if authenticationCode != "" && e.AuthenticationCode != authenticationCode {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *InMemoryStore) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// All returns a copy of every entry, newest last. Test helper.
func (s *InMemoryStore) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries...)
}
