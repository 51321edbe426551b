package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/dto"
	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/pkg/kvstore"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type fakeCacheRepo struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated []string
	getErr      error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

// blockingListStore holds the first List call open after it has read the
// store, until release is closed.
type blockingListStore struct {
	*repository.Store[models.Student]
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *blockingListStore) List(ctx context.Context) ([]models.Student, error) {
	records, err := s.Store.List(ctx)
	s.once.Do(func() {
		close(s.loaded)
		<-s.release
	})
	return records, err
}

func TestListDoesNotCacheDataOlderThanInvalidation(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewRegistry(kvstore.NewMemory())
	t.Cleanup(func() { _ = reg.Close() })
	cache := NewCacheService(newFakeCacheRepo(), nil, time.Minute, nil, true)
	store := &blockingListStore{Store: reg.Students, loaded: make(chan struct{}), release: make(chan struct{})}
	svc := NewStudentService(store, reg.IDs, cache, NewValidator(), zap.NewNop())

	_, err := svc.Register(ctx, dto.StudentRequest{Name: "Ana"})
	require.NoError(t, err)

	done := make(chan []models.Student)
	go func() {
		records, _, listErr := svc.List(ctx)
		assert.NoError(t, listErr)
		done <- records
	}()

	<-store.loaded
	_, err = svc.Register(ctx, dto.StudentRequest{Name: "Bo"})
	require.NoError(t, err)
	close(store.release)
	assert.Len(t, <-done, 1)

	students, hit, err := svc.List(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, students, 2)

	students, hit, err = svc.List(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, students, 2)
}

func TestSetIfCurrentSkipsAfterInvalidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	key := ListKey("lectures")

	gen := svc.Generation("lectures")
	require.NoError(t, svc.InvalidateCollection(ctx, "lectures"))
	written, err := svc.SetIfCurrent(ctx, "lectures", gen, key, []string{"stale"}, 0)
	require.NoError(t, err)
	assert.False(t, written)
	assert.NotContains(t, repo.entries, key)

	// other collections keep their own generation
	written, err = svc.SetIfCurrent(ctx, "students", svc.Generation("students"), ListKey("students"), []string{}, 0)
	require.NoError(t, err)
	assert.True(t, written)

	var disabled *CacheService
	assert.Zero(t, disabled.Generation("lectures"))
	assert.NoError(t, disabled.InvalidateCollection(ctx, "lectures"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "records:students:list", ListKey("students"))
	assert.Equal(t, "records:messages:*", CollectionPattern("messages"))
}

func TestCacheServiceDisabled(t *testing.T) {
	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())

	svc := NewCacheService(newFakeCacheRepo(), nil, 0, nil, false)
	hit, err := svc.Get(context.Background(), "k", &[]string{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStudentListIsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, time.Minute, nil, true)
	s := newTestServices(t, cache)

	_, err := s.students.Register(ctx, dto.StudentRequest{Name: "Ana"})
	require.NoError(t, err)

	first, hit, err := s.students.List(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, first, 1)

	second, hit, err := s.students.List(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	_, err = s.students.Register(ctx, dto.StudentRequest{Name: "Bo"})
	require.NoError(t, err)
	assert.Contains(t, repo.invalidated, "records:students:*")

	third, hit, err := s.students.List(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, third, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.cacheMisses))
}

func TestCachedEmptyListStaysNonNil(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheService(newFakeCacheRepo(), nil, time.Minute, nil, true)
	s := newTestServices(t, cache)

	_, _, err := s.lectures.List(ctx)
	require.NoError(t, err)
	lectures, hit, err := s.lectures.List(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.NotNil(t, lectures)
	assert.Equal(t, []models.Lecture{}, lectures)
}

func TestCacheFailureDoesNotFailList(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCacheRepo()
	repo.getErr = errors.New("connection refused")
	s := newTestServices(t, NewCacheService(repo, nil, time.Minute, nil, true))

	_, err := s.messages.Send(ctx, dto.MessageRequest{Content: "hi"})
	require.NoError(t, err)

	messages, hit, err := s.messages.List(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, messages, 1)
}
