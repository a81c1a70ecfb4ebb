package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"breeder/internal/types"
)

type snapshotFile struct {
	Snapshots map[string]*types.SelectionSnapshot `json:"snapshots"`
}

// FileSnapshotStore keeps every server's snapshot in one JSON document.
type FileSnapshotStore struct {
	path string
	mu   sync.Mutex
}

func NewFileSnapshotStore(path string) (*FileSnapshotStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("snapshot path is required")
	}
	return &FileSnapshotStore{path: path}, nil
}

func (s *FileSnapshotStore) Load(ctx context.Context, server string) (*types.SelectionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.Snapshots[snapshotKey(server)], nil
}

func (s *FileSnapshotStore) Save(ctx context.Context, snapshot *types.SelectionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot == nil {
		return errors.New("snapshot is required")
	}
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Snapshots[snapshotKey(snapshot.Server)] = snapshot
	return writeSnapshotFile(s.path, doc)
}

func (s *FileSnapshotStore) Delete(ctx context.Context, server string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	key := snapshotKey(server)
	if _, ok := doc.Snapshots[key]; !ok {
		return nil
	}
	delete(doc.Snapshots, key)
	return writeSnapshotFile(s.path, doc)
}

func (s *FileSnapshotStore) Backend() string { return BackendFile }
func (s *FileSnapshotStore) Close() error    { return nil }

func (s *FileSnapshotStore) read() (*snapshotFile, error) {
	doc := &snapshotFile{}
	if err := readSnapshotFile(s.path, doc); err != nil {
		return nil, err
	}
	if doc.Snapshots == nil {
		doc.Snapshots = map[string]*types.SelectionSnapshot{}
	}
	return doc, nil
}
