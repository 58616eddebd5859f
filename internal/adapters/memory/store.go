// Package memory is an in-process curated store with the same match
// predicates as the Postgres adapter.
package memory

import (
	"context"
	"strings"
	"sync"

	"qrsafe/internal/domain"
)

// Store keeps curated entries in insertion order. Upserts replace an entry
// with the same normalized key in place.
type Store struct {
	mu        sync.RWMutex
	malicious []domain.MaliciousEntry
	verified  []domain.VerifiedEntry
}

func New() *Store { return &Store{} }

func (s *Store) FindMalicious(ctx context.Context, key domain.NormalizedURL) (domain.MaliciousEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.MaliciousEntry{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	k := string(key)
	for _, e := range s.malicious {
		stored := string(e.NormalizedURL)
		if stored == k || strings.Contains(k, stored) || strings.Contains(stored, k) {
			return e, true, nil
		}
	}
	return domain.MaliciousEntry{}, false, nil
}

func (s *Store) FindVerified(ctx context.Context, key domain.NormalizedURL) (domain.VerifiedEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.VerifiedEntry{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	k := string(key)
	for _, e := range s.verified {
		if strings.HasPrefix(k, string(e.NormalizedURL)) {
			return e, true, nil
		}
	}
	return domain.VerifiedEntry{}, false, nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) UpsertMalicious(ctx context.Context, entry domain.MaliciousEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.malicious {
		if s.malicious[i].NormalizedURL == entry.NormalizedURL {
			s.malicious[i] = entry
			return nil
		}
	}
	s.malicious = append(s.malicious, entry)
	return nil
}

func (s *Store) UpsertVerified(ctx context.Context, entry domain.VerifiedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.verified {
		if s.verified[i].NormalizedURL == entry.NormalizedURL {
			s.verified[i] = entry
			return nil
		}
	}
	s.verified = append(s.verified, entry)
	return nil
}
