package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository(nil, nil)

	var dest []string
	err := repo.Get(ctx, "records:students:list", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "records:students:list", []string{"a"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "records:students:*"))
	require.NoError(t, repo.Close())
}
