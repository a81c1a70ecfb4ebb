package store

import (
	"context"
	"fmt"
	"strings"

	"breeder/internal/types"
)

const (
	BackendFile  = "file"
	BackendBbolt = "bbolt"
	BackendNone  = "none"
)

// SnapshotStore persists selection snapshots keyed by server address.
type SnapshotStore interface {
	Load(ctx context.Context, server string) (*types.SelectionSnapshot, error)
	Save(ctx context.Context, snapshot *types.SelectionSnapshot) error
	Delete(ctx context.Context, server string) error
	Backend() string
	Close() error
}

func NewSnapshotStore(backend, path string) (SnapshotStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileSnapshotStore(path)
	case BackendBbolt:
		return NewBboltSnapshotStore(path)
	case BackendNone:
		return nopSnapshotStore{}, nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}

type nopSnapshotStore struct{}

func (nopSnapshotStore) Load(context.Context, string) (*types.SelectionSnapshot, error) {
	return nil, nil
}

func (nopSnapshotStore) Save(context.Context, *types.SelectionSnapshot) error { return nil }
func (nopSnapshotStore) Delete(context.Context, string) error                 { return nil }
func (nopSnapshotStore) Backend() string                                      { return BackendNone }
func (nopSnapshotStore) Close() error                                         { return nil }

func snapshotKey(server string) string {
	return strings.TrimRight(strings.TrimSpace(server), "/")
}
