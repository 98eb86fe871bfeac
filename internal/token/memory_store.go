package token

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewMemoryStore returns a mutex-guarded in-process store, used in tests and
// when no backing database is configured.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]Record)}
}

func (s *memoryStore) Create(_ context.Context, purpose Purpose, subjectRef, projectID string, ttl time.Duration) (*Record, error) {
	value, err := NewValue()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := Record{
		Value:      value,
		Purpose:    purpose,
		SubjectRef: subjectRef,
		ProjectID:  projectID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	s.mu.Lock()
	s.records[value] = rec
	s.mu.Unlock()
	return &rec, nil
}

func (s *memoryStore) Redeem(_ context.Context, value string) (*Record, error) {
	s.mu.Lock()
	rec, ok := s.records[value]
	if ok {
		delete(s.records, value)
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !rec.Live(time.Now()) {
		return nil, ErrExpired
	}
	return &rec, nil
}

func (s *memoryStore) Peek(_ context.Context, value string) (*Record, error) {
	s.mu.Lock()
	rec, ok := s.records[value]
	s.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	if !rec.Live(time.Now()) {
		return nil, ErrExpired
	}
	return &rec, nil
}

// PurgeExpired drops every expired record.
func (s *memoryStore) PurgeExpired(_ context.Context) (int, error) {
	now := time.Now()
	purged := 0

	s.mu.Lock()
	for value, rec := range s.records {
		if !rec.Live(now) {
			delete(s.records, value)
			purged++
		}
	}
	s.mu.Unlock()
	return purged, nil
}
