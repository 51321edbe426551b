// Package kvstore provides ordered byte-keyed storage engines used to persist
// records. Every engine iterates keys in ascending byte order, which callers
// rely on for id-ordered listings.
package kvstore

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/database"
)

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("kvstore: key not found")

// ErrStopScan may be returned from a scan callback to end iteration early
// without reporting an error.
var ErrStopScan = errors.New("kvstore: stop scan")

// Engine is an ordered key-value store.
type Engine interface {
	// Get returns the value for key or ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Put stores value under key, overwriting any previous value.
	Put(key, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error
	// Scan calls fn for every key with the given prefix in ascending order.
	// Scanning stops at the first error returned by fn.
	Scan(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Open constructs the engine selected by cfg.Backend.
func Open(cfg config.StorageConfig, dbCfg config.DatabaseConfig) (Engine, error) {
	switch cfg.Backend {
	case "", config.BackendLevelDB:
		return OpenLevelDB(cfg.Dir)
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(dbCfg)
		if err != nil {
			return nil, err
		}
		engine, err := NewPostgres(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// finishScan maps ErrStopScan to a clean stop.
func finishScan(err error) error {
	if errors.Is(err, ErrStopScan) {
		return nil
	}
	return err
}
