package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepo(newTestDB(t))

	_, ok, err := repo.Get(ctx, "domain")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "domain", "a.social"))
	require.NoError(t, repo.Set(ctx, "domain", "b.social"))

	v, ok, err := repo.Get(ctx, "domain")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b.social", v)
}
