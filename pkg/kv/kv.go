package kv

import (
	"context"
	"encoding/json"
	"errors"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
)

// ErrNotFound is returned by Get when the key has never been written or was
// deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistent key-value namespace every storefront record lives
// in. Values are JSON blobs; the store itself is shape-agnostic.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Event signals that the record under Key changed. Subscribers re-read the
// store rather than receiving the new value, mirroring the native storage
// change signal the services were built around.
type Event struct {
	Key string
}

// Watcher carries change notifications between readers of the same store.
type Watcher interface {
	Notify(ctx context.Context, key string) error
	Subscribe(key string) (<-chan Event, func())
}

// ReadJSON loads and decodes the record at key into dest. The boolean is
// false when the key is absent. Malformed payloads surface as PARSE_ERROR
// so callers can decide whether to recover with defaults.
func ReadJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read "+key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeParse, err, "decode "+key)
	}
	return true, nil
}

// WriteJSON encodes value and stores it at key.
func WriteJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+key)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write "+key)
	}
	return nil
}
