package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/student-records-api/internal/codec"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

// Collection names double as engine key prefixes, cache namespaces and metric
// labels.
const (
	CollectionStudents          = "students"
	CollectionLectures          = "lectures"
	CollectionAttendanceRecords = "attendance_records"
	CollectionMessages          = "messages"
)

// Collections lists every record collection in a stable order.
var Collections = []string{
	CollectionStudents,
	CollectionLectures,
	CollectionAttendanceRecords,
	CollectionMessages,
}

// Registry owns the engine together with the identifier allocator and the
// four record stores built on it. Construct one per process and pass it to
// the services.
type Registry struct {
	engine kvstore.Engine

	IDs               *IDAllocator
	Students          *Store[models.Student]
	Lectures          *Store[models.Lecture]
	AttendanceRecords *Store[models.AttendanceRecord]
	Messages          *Store[models.Message]
}

// Option customises a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	observer Observer
}

// WithObserver reports store timings to o.
func WithObserver(o Observer) Option {
	return func(opts *registryOptions) {
		opts.observer = o
	}
}

// NewRegistry wires the allocator and stores onto engine.
func NewRegistry(engine kvstore.Engine, opts ...Option) *Registry {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		engine:            engine,
		IDs:               NewIDAllocator(engine, o.observer),
		Students:          NewStore(CollectionStudents, engine, codec.Students, o.observer),
		Lectures:          NewStore(CollectionLectures, engine, codec.Lectures, o.observer),
		AttendanceRecords: NewStore(CollectionAttendanceRecords, engine, codec.AttendanceRecords, o.observer),
		Messages:          NewStore(CollectionMessages, engine, codec.Messages, o.observer),
	}
}

// Ping performs a cheap read to confirm the engine is reachable.
func (r *Registry) Ping(ctx context.Context) error {
	_, err := r.engine.Get(counterKey)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}
	return nil
}

// Close closes the underlying engine.
func (r *Registry) Close() error {
	return r.engine.Close()
}
