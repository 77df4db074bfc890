package repository_test

import (
	"context"
	"testing"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/repository"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementAccumulates(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "alice")
	counters := repository.NewCounterRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, counters.Increment(ctx, user.ID, "lessons_completed", 1))
	}
	require.NoError(t, counters.Increment(ctx, user.ID, "lessons_completed", 5))

	value, err := counters.Get(ctx, user.ID, "lessons_completed")
	require.NoError(t, err)
	assert.Equal(t, 8, value)
}

func TestGetMissingCounterIsZero(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db, "bob")
	counters := repository.NewCounterRepository(db)

	value, err := counters.Get(context.Background(), user.ID, "perfect_scores")
	require.NoError(t, err)
	assert.Zero(t, value)
}

func TestAllForUserScopedToOwner(t *testing.T) {
	db := testutil.DB(t)
	alice := testutil.SeedUser(t, db, "alice")
	mallory := testutil.SeedUser(t, db, "mallory")
	counters := repository.NewCounterRepository(db)
	ctx := context.Background()

	require.NoError(t, counters.Increment(ctx, alice.ID, "lessons_completed", 2))
	require.NoError(t, counters.Increment(ctx, alice.ID, "fast_solves", 1))
	require.NoError(t, counters.Increment(ctx, mallory.ID, "lessons_completed", 9))

	all, err := counters.AllForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"lessons_completed": 2, "fast_solves": 1}, all)
}
