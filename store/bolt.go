package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

var datasetsBucket = []byte("datasets")

// Bolt stores gob-encoded datasets in a single bolt bucket keyed by ID.
type Bolt struct {
	db *bolt.DB
}

func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(datasetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create datasets bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (s *Bolt) Save(ctx context.Context, d *Dataset) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(datasetsBucket).Put([]byte(d.ID), buf.Bytes())
	})
}

func (s *Bolt) Get(ctx context.Context, id string) (*Dataset, error) {
	var d Dataset
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(datasetsBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return gob.NewDecoder(bytes.NewReader(v)).Decode(&d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Bolt) List(ctx context.Context) ([]Dataset, error) {
	var out []Dataset
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(datasetsBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var d Dataset
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&d); err != nil {
				return fmt.Errorf("decode dataset %s: %w", k, err)
			}
			out = append(out, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

func (s *Bolt) Close() error {
	return s.db.Close()
}
