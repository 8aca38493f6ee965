package featstore

import (
	"fmt"
	"sync"
	"testing"

	"ofp/internal/model"
)

func TestInMemory_ConcurrentPuts(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("o-%d-%d", g, i)
				if err := s.Put(model.FeatureRecord{OrderID: id}); err != nil {
					t.Errorf("put %s: %v", id, err)
				}
			}
		}(g)
	}
	wg.Wait()
	n := 0
	if err := s.Range(func(model.FeatureRecord) error { n++; return nil }); err != nil {
		t.Fatalf("range: %v", err)
	}
	if n != 800 {
		t.Fatalf("want 800 records, got %d", n)
	}
}
