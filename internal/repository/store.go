package repository

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/student-records-api/internal/codec"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

// Record is implemented by every stored model.
type Record interface {
	RecordID() uint64
}

// Observer receives timings for storage operations.
type Observer interface {
	ObserveStoreOp(store, op string, duration time.Duration)
	ObserveIDAllocated()
}

// Store is an ordered map from id to record kept under its own key prefix in
// a shared engine. Keys are big-endian ids so engine order is id order.
// Mutations are serialised per store.
type Store[T Record] struct {
	name     string
	prefix   []byte
	engine   kvstore.Engine
	codec    codec.Codec[T]
	observer Observer

	mu sync.RWMutex
}

// NewStore builds a store for the named collection.
func NewStore[T Record](name string, engine kvstore.Engine, c codec.Codec[T], observer Observer) *Store[T] {
	return &Store[T]{
		name:     name,
		prefix:   []byte(name + "/"),
		engine:   engine,
		codec:    c,
		observer: observer,
	}
}

// Get returns the record stored under id, or nil when absent.
func (s *Store[T]) Get(ctx context.Context, id uint64) (*T, error) {
	defer s.observe("get", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

// Insert writes rec under id and returns the value it replaced, if any.
func (s *Store[T]) Insert(ctx context.Context, id uint64, rec T) (*T, error) {
	defer s.observe("insert", time.Now())
	if err := s.checkID(id, rec); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := s.put(id, rec); err != nil {
		return nil, err
	}
	return prev, nil
}

// Replace overwrites the record under id only when one already exists. It
// returns the replaced value, or nil without writing when id is absent.
func (s *Store[T]) Replace(ctx context.Context, id uint64, rec T) (*T, error) {
	defer s.observe("replace", time.Now())
	if err := s.checkID(id, rec); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.get(id)
	if err != nil || prev == nil {
		return nil, err
	}
	if err := s.put(id, rec); err != nil {
		return nil, err
	}
	return prev, nil
}

// Remove deletes id and returns the removed value, or nil when absent.
func (s *Store[T]) Remove(ctx context.Context, id uint64) (*T, error) {
	defer s.observe("remove", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.get(id)
	if err != nil || prev == nil {
		return nil, err
	}
	if err := s.engine.Delete(s.key(id)); err != nil {
		return nil, fmt.Errorf("delete %s %d: %w", s.name, id, err)
	}
	return prev, nil
}

// Iterate calls fn for every record in ascending id order. fn must not
// mutate this store.
func (s *Store[T]) Iterate(ctx context.Context, fn func(id uint64, rec T) error) error {
	defer s.observe("iterate", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine.Scan(s.prefix, func(key, value []byte) error {
		if len(key) != len(s.prefix)+8 {
			return fmt.Errorf("%w: %s key of length %d", codec.ErrCorrupt, s.name, len(key))
		}
		id := binary.BigEndian.Uint64(key[len(s.prefix):])
		rec, err := s.codec.Decode(value)
		if err != nil {
			return fmt.Errorf("decode %s %d: %w", s.name, id, err)
		}
		return fn(id, rec)
	})
}

// List materialises every record in ascending id order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	err := s.Iterate(ctx, func(_ uint64, rec T) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store[T]) key(id uint64) []byte {
	k := make([]byte, len(s.prefix)+8)
	copy(k, s.prefix)
	binary.BigEndian.PutUint64(k[len(s.prefix):], id)
	return k
}

func (s *Store[T]) get(id uint64) (*T, error) {
	raw, err := s.engine.Get(s.key(id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", s.name, id, err)
	}
	rec, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s %d: %w", s.name, id, err)
	}
	return &rec, nil
}

func (s *Store[T]) put(id uint64, rec T) error {
	raw, err := s.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", s.name, id, err)
	}
	if err := s.engine.Put(s.key(id), raw); err != nil {
		return fmt.Errorf("put %s %d: %w", s.name, id, err)
	}
	return nil
}

func (s *Store[T]) checkID(id uint64, rec T) error {
	if rec.RecordID() != id {
		return fmt.Errorf("%s record id %d stored under key %d", s.name, rec.RecordID(), id)
	}
	return nil
}

func (s *Store[T]) observe(op string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveStoreOp(s.name, op, time.Since(start))
	}
}
