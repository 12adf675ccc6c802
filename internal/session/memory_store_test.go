package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"autostat/domain/core"
	"autostat/models"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmission(clock quartz.Clock, id core.SessionID, ttl time.Duration) *models.Submission {
	return models.NewSubmission(id, "data.csv", []byte("a,b\n1,2\n"), nil, "impute", clock.Now(), ttl)
}

func TestMemoryStore_TakeRemovesEntry(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	store := NewMemoryStore(clock, nil)

	require.NoError(t, store.Save(ctx, newSubmission(clock, "cs_1", time.Hour)))
	assert.Equal(t, 1, store.Len())

	sub, err := store.Take(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "data.csv", sub.FileName)

	_, err = store.Take(ctx, "cs_1")
	assert.True(t, errors.Is(err, core.ErrSubmissionExpired))
	assert.True(t, core.IsNotFoundError(err))
}

func TestMemoryStore_ExpiredEntryIsGone(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	store := NewMemoryStore(clock, nil)

	require.NoError(t, store.Save(ctx, newSubmission(clock, "cs_short", time.Minute)))
	require.NoError(t, store.Save(ctx, newSubmission(clock, "cs_long", time.Hour)))

	clock.Advance(2 * time.Minute).MustWait(ctx)

	_, err := store.Take(ctx, "cs_short")
	assert.True(t, errors.Is(err, core.ErrSubmissionExpired))
	assert.Equal(t, 1, store.Len())

	_, err = store.Take(ctx, "cs_long")
	assert.NoError(t, err)
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	store := NewMemoryStore(clock, nil)

	for _, id := range []core.SessionID{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, newSubmission(clock, id, time.Minute)))
	}
	clock.Advance(time.Minute).MustWait(ctx)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_JanitorEvicts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := quartz.NewMock(t)
	store := NewMemoryStore(clock, nil)

	require.NoError(t, store.Save(ctx, newSubmission(clock, "cs_1", 30*time.Second)))
	store.StartJanitor(ctx, time.Minute)

	clock.Advance(time.Minute).MustWait(ctx)
	assert.Equal(t, 0, store.Len())
}
