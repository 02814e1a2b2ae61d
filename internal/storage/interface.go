package storage

import (
	"context"

	"github.com/mcoot/psconsole/internal/model"
)

// Storage defines the interface for data persistence.
// Each origin is an isolated key/value namespace with browser localStorage
// semantics: values are opaque byte strings and writes overwrite.
type Storage interface {
	// GetItem returns the stored value or model.ErrItemNotFound
	GetItem(ctx context.Context, origin model.Origin, key string) ([]byte, error)

	// SetItem overwrites the value stored under key
	SetItem(ctx context.Context, origin model.Origin, key string, value []byte) error

	// RemoveItem deletes the key; removing a missing key is not an error
	RemoveItem(ctx context.Context, origin model.Origin, key string) error

	// Keys lists the keys stored in the origin
	Keys(ctx context.Context, origin model.Origin) ([]string, error)
}
