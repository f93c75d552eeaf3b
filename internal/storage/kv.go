// Package storage persists the workout list as a single blob in a key-value
// backend. Postgres, SQLite, a JSON file and memory are supported.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// KV is a durable key-value store. Put replaces the whole value.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverMemory   = "memory"
)

// Options selects and configures a KV backend.
type Options struct {
	Driver string
	// DSN is the Postgres connection string.
	DSN string
	// Migrations is the directory of Postgres migrations.
	Migrations string
	// Path is the SQLite database file or the JSON file directory.
	Path string
}

// Open returns the backend named by opts.Driver, running migrations first for Postgres.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Driver {
	case DriverPostgres:
		if err := RunMigrations(opts.DSN, opts.Migrations); err != nil {
			return nil, err
		}
		return New(ctx, opts.DSN)
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverFile:
		return OpenFile(opts.Path)
	case DriverMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// ErrCorruptBlob is returned by Load when the stored blob is not a JSON array.
var ErrCorruptBlob = errors.New("stored workouts blob is corrupt")
