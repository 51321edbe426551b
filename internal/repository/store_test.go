package repository

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/internal/codec"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

type recordingObserver struct {
	mu        sync.Mutex
	ops       []string
	allocated int
}

func (o *recordingObserver) ObserveStoreOp(store, op string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, store+"."+op)
}

func (o *recordingObserver) ObserveIDAllocated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.allocated++
}

func TestStoreInsertGetRemove(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(kvstore.NewMemory())

	got, err := reg.Students.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	prev, err := reg.Students.Insert(ctx, 1, models.Student{ID: 1, Name: "Ana"})
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = reg.Students.Insert(ctx, 1, models.Student{ID: 1, Name: "Ana Maria"})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "Ana", prev.Name)

	got, err = reg.Students.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)

	removed, err := reg.Students.Remove(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "Ana Maria", removed.Name)

	removed, err = reg.Students.Remove(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestStoreReplaceWritesOnlyExisting(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(kvstore.NewMemory())

	prev, err := reg.Lectures.Replace(ctx, 5, models.Lecture{ID: 5, Topic: "Algebra"})
	require.NoError(t, err)
	assert.Nil(t, prev)

	got, err := reg.Lectures.Get(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, got, "replace of a missing id must not write")

	_, err = reg.Lectures.Insert(ctx, 5, models.Lecture{ID: 5, Topic: "Algebra"})
	require.NoError(t, err)
	prev, err = reg.Lectures.Replace(ctx, 5, models.Lecture{ID: 5, Topic: "Geometry"})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "Algebra", prev.Topic)
}

func TestStoreRejectsMismatchedID(t *testing.T) {
	reg := NewRegistry(kvstore.NewMemory())
	_, err := reg.Messages.Insert(context.Background(), 2, models.Message{ID: 3, Content: "x"})
	assert.Error(t, err)
}

func TestStoreListsInAscendingIDOrder(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(kvstore.NewMemory())

	for _, id := range []uint64{300, 2, 10, 1 << 40, 256} {
		_, err := reg.AttendanceRecords.Insert(ctx, id, models.AttendanceRecord{ID: id, AttendanceStatus: "present"})
		require.NoError(t, err)
	}

	records, err := reg.AttendanceRecords.List(ctx)
	require.NoError(t, err)
	ids := make([]uint64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint64{2, 10, 256, 300, 1 << 40}, ids)
}

func TestStoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(kvstore.NewMemory())

	_, err := reg.Students.Insert(ctx, 1, models.Student{ID: 1, Name: "Ana"})
	require.NoError(t, err)

	lecture, err := reg.Lectures.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, lecture)

	lectures, err := reg.Lectures.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, lectures)
	assert.NotNil(t, lectures)
}

func TestStoreReportsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	engine := kvstore.NewMemory()
	reg := NewRegistry(engine)

	key := make([]byte, len(CollectionStudents)+1+8)
	copy(key, CollectionStudents+"/")
	binary.BigEndian.PutUint64(key[len(CollectionStudents)+1:], 4)
	require.NoError(t, engine.Put(key, []byte{0x0a, 0xff}))

	_, err := reg.Students.Get(ctx, 4)
	assert.ErrorIs(t, err, codec.ErrCorrupt)

	_, err = reg.Students.List(ctx)
	assert.ErrorIs(t, err, codec.ErrCorrupt)
}

func TestStoreReportsOversizedRecords(t *testing.T) {
	reg := NewRegistry(kvstore.NewMemory())
	big := make([]byte, codec.MaxRecordSize)
	_, err := reg.Students.Insert(context.Background(), 1, models.Student{ID: 1, Name: string(big)})
	assert.ErrorIs(t, err, codec.ErrRecordTooLarge)
}

func TestRegistrySurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records")

	engine, err := kvstore.OpenLevelDB(path)
	require.NoError(t, err)
	reg := NewRegistry(engine)

	id, err := reg.IDs.Next(ctx)
	require.NoError(t, err)
	_, err = reg.Students.Insert(ctx, id, models.Student{ID: id, Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, reg.Close())

	engine, err = kvstore.OpenLevelDB(path)
	require.NoError(t, err)
	reg = NewRegistry(engine)
	defer reg.Close()

	next, err := reg.IDs.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, id+1, next)

	students, err := reg.Students.List(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ana", students[0].Name)
	require.NoError(t, reg.Ping(ctx))
}

func TestRegistryReportsToObserver(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	reg := NewRegistry(kvstore.NewMemory(), WithObserver(obs))

	id, err := reg.IDs.Next(ctx)
	require.NoError(t, err)
	_, err = reg.Messages.Insert(ctx, id, models.Message{ID: id, Content: "hi"})
	require.NoError(t, err)

	assert.Equal(t, 1, obs.allocated)
	assert.Contains(t, obs.ops, "meta.allocate")
	assert.Contains(t, obs.ops, "messages.insert")
}
