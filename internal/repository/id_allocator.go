package repository

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

var counterKey = []byte("meta/id_counter")

// IDAllocator hands out identifiers from a single persisted counter shared by
// every record store. The stored value is the last id handed out.
type IDAllocator struct {
	mu       sync.Mutex
	engine   kvstore.Engine
	observer Observer
	current  uint64
	loaded   bool
}

// NewIDAllocator binds an allocator to engine. The counter is read lazily.
func NewIDAllocator(engine kvstore.Engine, observer Observer) *IDAllocator {
	return &IDAllocator{engine: engine, observer: observer}
}

// Current returns the last allocated id, zero when none was ever allocated.
func (a *IDAllocator) Current(ctx context.Context) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.load(); err != nil {
		return 0, err
	}
	return a.current, nil
}

// Next persists and returns the next identifier. Running out of identifiers
// is unrecoverable and panics.
func (a *IDAllocator) Next(ctx context.Context) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	if err := a.load(); err != nil {
		return 0, err
	}
	if a.current == math.MaxUint64 {
		panic("repository: identifier space exhausted")
	}

	next := a.current + 1
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := a.engine.Put(counterKey, buf); err != nil {
		return 0, fmt.Errorf("persist id counter: %w", err)
	}
	a.current = next

	if a.observer != nil {
		a.observer.ObserveStoreOp("meta", "allocate", time.Since(start))
		a.observer.ObserveIDAllocated()
	}
	return next, nil
}

func (a *IDAllocator) load() error {
	if a.loaded {
		return nil
	}
	raw, err := a.engine.Get(counterKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		a.current = 0
	case err != nil:
		return fmt.Errorf("load id counter: %w", err)
	case len(raw) != 8:
		return fmt.Errorf("load id counter: unexpected length %d", len(raw))
	default:
		a.current = binary.BigEndian.Uint64(raw)
	}
	a.loaded = true
	return nil
}
