// Package store persists graph documents by graph id.
//
// Documents are stored as the JSON produced by [document.Marshal]. Backends:
//   - [FileStore]: one JSON file per graph, for the CLI
//   - [MemoryStore]: in-process, for tests and development
//   - [RedisStore]: shared store for multi-instance servers
//   - [MongoStore]: documents kept as BSON so they stay queryable
//
// Use [Open] to build a store from a [Config].
package store

import (
	"context"
	"fmt"

	"github.com/matzehuels/nodegraph/pkg/errors"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no document is stored under an id.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "graph not found")

	// ErrUnknownKind is returned by Open for an unsupported backend name.
	ErrUnknownKind = errors.New(errors.ErrCodeInvalidInput, "unknown store kind")
)

// Store is a document store keyed by graph id.
type Store interface {
	// Put stores data under id, replacing any previous document.
	Put(ctx context.Context, id string, data []byte) error

	// Get returns the document stored under id, or an error matching
	// ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// List returns every stored id in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes id. Deleting a missing id returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

// Kind names a store backend.
type Kind string

const (
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
	KindRedis  Kind = "redis"
	KindMongo  Kind = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Kind Kind

	// Dir is the FileStore directory. Empty means the default under the
	// user config dir.
	Dir string

	RedisAddr   string
	RedisPrefix string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open builds the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Kind {
	case KindFile, "":
		return NewFileStore(cfg.Dir)
	case KindMemory:
		return NewMemoryStore(), nil
	case KindRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case KindMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
}

func notFound(id string) error {
	return fmt.Errorf("%q: %w", id, ErrNotFound)
}
