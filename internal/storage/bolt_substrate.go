package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "kv"

// BoltSubstrate stores items in a single bbolt bucket.
type BoltSubstrate struct {
	db *bbolt.DB
}

func NewBoltSubstrate(path string) (*BoltSubstrate, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", boltBucket, err)
	}

	return &BoltSubstrate{db: db}, nil
}

func (b *BoltSubstrate) GetItem(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if payload == nil {
			return nil
		}
		value = string(payload)
		found = true
		return nil
	})
	return value, found, err
}

func (b *BoltSubstrate) SetItem(key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), []byte(value))
	})
}

func (b *BoltSubstrate) RemoveItem(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

func (b *BoltSubstrate) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (b *BoltSubstrate) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
