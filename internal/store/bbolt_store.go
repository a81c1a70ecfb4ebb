package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"breeder/internal/types"
)

var bucketSelections = []byte("selections")

type BboltSnapshotStore struct {
	db *bolt.DB
}

func NewBboltSnapshotStore(path string) (*BboltSnapshotStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("snapshot db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initBboltSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BboltSnapshotStore{db: db}, nil
}

func initBboltSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSelections)
		return err
	})
}

func (s *BboltSnapshotStore) Load(ctx context.Context, server string) (*types.SelectionSnapshot, error) {
	var snapshot *types.SelectionSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSelections)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(snapshotKey(server)))
		if len(raw) == 0 {
			return nil
		}
		snapshot = &types.SelectionSnapshot{}
		return json.Unmarshal(raw, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *BboltSnapshotStore) Save(ctx context.Context, snapshot *types.SelectionSnapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is required")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSelections)
		if b == nil {
			return errors.New("selections bucket missing")
		}
		return b.Put([]byte(snapshotKey(snapshot.Server)), raw)
	})
}

func (s *BboltSnapshotStore) Delete(ctx context.Context, server string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSelections)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(snapshotKey(server)))
	})
}

func (s *BboltSnapshotStore) Backend() string { return BackendBbolt }

func (s *BboltSnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
