package featstore

import (
	"fmt"
	"sync"

	"ofp/internal/model"
)

// Store is a keyed store of finished feature records, keyed by order id.
// Records are written once per run and never updated in place; a rerun
// replaces them wholesale.
type Store interface {
	Put(rec model.FeatureRecord) error
	Get(orderID string) (model.FeatureRecord, bool)
	Range(fn func(rec model.FeatureRecord) error) error
	Close() error
}

// InMemoryStore is a thread-safe map store, used in tests and for runs that
// only need the CSV artifact.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]model.FeatureRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]model.FeatureRecord)}
}

func (s *InMemoryStore) Put(rec model.FeatureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.OrderID] = rec
	return nil
}

func (s *InMemoryStore) Get(orderID string) (model.FeatureRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[orderID]
	return rec, ok
}

func (s *InMemoryStore) Range(fn func(rec model.FeatureRecord) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.data {
		if err := fn(rec); err != nil {
			return fmt.Errorf("range callback failed: %w", err)
		}
	}
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
