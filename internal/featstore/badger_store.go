package featstore

import (
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"ofp/internal/model"
)

// BadgerStore implements Store using BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(dir))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) Put(rec model.FeatureRecord) error {
	bytes, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.OrderID, err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rec.OrderID), bytes)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", rec.OrderID, err)
	}
	return nil
}

func (b *BadgerStore) Get(orderID string) (model.FeatureRecord, bool) {
	var rec model.FeatureRecord
	err := b.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get([]byte(orderID))
		if e != nil {
			return e
		}
		v, e := item.ValueCopy(nil)
		if e != nil {
			return e
		}
		var dErr error
		rec, dErr = decodeRecord(v)
		return dErr
	})
	if err != nil {
		return model.FeatureRecord{}, false
	}
	return rec, true
}

func (b *BadgerStore) Range(fn func(rec model.FeatureRecord) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := decodeRecord(v)
			if err != nil {
				return err
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
