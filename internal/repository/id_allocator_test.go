package repository

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-records-api/pkg/kvstore"
)

func TestIDAllocatorStartsAtOne(t *testing.T) {
	ctx := context.Background()
	alloc := NewIDAllocator(kvstore.NewMemory(), nil)

	current, err := alloc.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, current)

	for want := uint64(1); want <= 3; want++ {
		got, err := alloc.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIDAllocatorContinuesFromPersistedValue(t *testing.T) {
	ctx := context.Background()
	engine := kvstore.NewMemory()

	first := NewIDAllocator(engine, nil)
	for i := 0; i < 5; i++ {
		_, err := first.Next(ctx)
		require.NoError(t, err)
	}

	second := NewIDAllocator(engine, nil)
	got, err := second.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), got)
}

func TestIDAllocatorPanicsWhenExhausted(t *testing.T) {
	engine := kvstore.NewMemory()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.MaxUint64)
	require.NoError(t, engine.Put(counterKey, buf))

	alloc := NewIDAllocator(engine, nil)
	assert.Panics(t, func() { _, _ = alloc.Next(context.Background()) })
}

func TestIDAllocatorRejectsMalformedCounter(t *testing.T) {
	engine := kvstore.NewMemory()
	require.NoError(t, engine.Put(counterKey, []byte{1, 2, 3}))

	_, err := NewIDAllocator(engine, nil).Next(context.Background())
	assert.Error(t, err)
}

func TestIDAllocatorIsSafeForConcurrentUse(t *testing.T) {
	ctx := context.Background()
	alloc := NewIDAllocator(kvstore.NewMemory(), nil)

	const workers, each = 8, 25
	results := make(chan uint64, workers*each)
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < each; i++ {
				id, err := alloc.Next(ctx)
				if err == nil {
					results <- id
				}
			}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(results)

	seen := make(map[uint64]bool)
	for id := range results {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*each)
}
