package featstore

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"ofp/internal/model"
)

// PebbleStore implements Store using PebbleDB.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func encodeRecord(rec model.FeatureRecord) ([]byte, error) { return json.Marshal(rec) }

func decodeRecord(val []byte) (model.FeatureRecord, error) {
	var rec model.FeatureRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return model.FeatureRecord{}, err
	}
	return rec, nil
}

func (p *PebbleStore) Put(rec model.FeatureRecord) error {
	b, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.OrderID, err)
	}
	// NoSync: the CSV artifact is the durable output; the store is a lookup
	// convenience rebuilt on every run.
	if err := p.db.Set([]byte(rec.OrderID), b, pebble.NoSync); err != nil {
		return fmt.Errorf("pebble set %s: %w", rec.OrderID, err)
	}
	return nil
}

func (p *PebbleStore) Get(orderID string) (model.FeatureRecord, bool) {
	v, closer, err := p.db.Get([]byte(orderID))
	if err != nil {
		return model.FeatureRecord{}, false
	}
	defer closer.Close()
	rec, err := decodeRecord(v)
	if err != nil {
		return model.FeatureRecord{}, false
	}
	return rec, true
}

func (p *PebbleStore) Range(fn func(rec model.FeatureRecord) error) error {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		v := append([]byte(nil), it.Value()...)
		rec, err := decodeRecord(v)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
