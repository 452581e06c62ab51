// Package store persists every listing the tracker has ever observed.
//
// Two backends share one contract: an embedded SQLite file for local and
// scheduled-runner deployments, and a hosted Redis keyspace for deployments
// without a persistent filesystem. The pipeline is backend-agnostic; the
// backend is selected by configuration through Open.
package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/aaz50/ByteIntern/config"
	"github.com/aaz50/ByteIntern/db"
	"github.com/aaz50/ByteIntern/errors"
	"github.com/aaz50/ByteIntern/listing"
)

// Store is the durable keyed record of ingested listings.
//
// All operations are atomic at single-listing granularity. Insert is
// idempotent: a duplicate ID is a no-op that leaves the existing row's
// FirstSeen and Notified untouched. MarkNotified is a no-op for unknown or
// already-notified IDs; the notified flag only ever moves false -> true.
type Store interface {
	// Exists reports whether a listing with this ID has ever been inserted.
	Exists(ctx context.Context, id string) (bool, error)

	// Insert stores the listing if absent. FirstSeen defaults to the
	// insertion-time wall clock when the listing carries the zero value.
	Insert(ctx context.Context, l listing.Listing) error

	// MarkNotified sets the notified flag for the given ID.
	MarkNotified(ctx context.Context, id string) error

	// All returns every stored listing, most recently discovered first.
	All(ctx context.Context) ([]listing.Listing, error)

	// Count returns the total number of stored listings.
	Count(ctx context.Context) (int, error)

	Close() error
}

// Open constructs the Store selected by the storage configuration.
func Open(ctx context.Context, cfg config.StorageConfig, log *zap.SugaredLogger) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendSQLite:
		conn, err := db.OpenWithMigrations(cfg.Path, log)
		if err != nil {
			return nil, errors.Wrapf(err, "open sqlite store at %s", cfg.Path)
		}
		return NewSQLiteStore(conn, log), nil

	case config.BackendRedis:
		s, err := NewRedisStore(ctx, cfg.RedisURL, cfg.KeyPrefix, log)
		if err != nil {
			return nil, errors.Wrap(err, "open redis store")
		}
		return s, nil

	default:
		return nil, errors.Newf("unknown storage backend %q", cfg.Backend)
	}
}
