package progress

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/certsim/quiz-service/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *models.ProgressRecord {
	record := models.NewProgressRecord("user-1", "mcpa-level-1")
	record.Cursor = 2
	record.ElapsedSeconds = 95
	record.Answers["mcpa-1"] = models.AnswerRecord{
		Selected:  models.SingleAnswer(1),
		Correct:   false,
		Timestamp: time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC),
	}
	return record
}

func TestKey(t *testing.T) {
	assert.Equal(t, "progress:user-1:mcpa-level-1", Key("user-1", "mcpa-level-1"))
}

func runStoreTests(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	assert.False(t, ok)

	record := sampleRecord()
	require.NoError(t, store.Save(ctx, record))

	loaded, ok, err := store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record.Cursor, loaded.Cursor)
	assert.Equal(t, record.ElapsedSeconds, loaded.ElapsedSeconds)
	require.Contains(t, loaded.Answers, "mcpa-1")
	assert.Equal(t, models.SingleAnswer(1), loaded.Answers["mcpa-1"].Selected)

	// saving again overwrites, it does not merge
	record.Cursor = 3
	require.NoError(t, store.Save(ctx, record))
	loaded, _, err = store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Cursor)

	// records are scoped per user and per quiz set
	_, ok, err = store.Load(ctx, "user-2", "mcpa-level-1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Load(ctx, "user-1", "admin-objectives-1-2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "user-1", "mcpa-level-1"))
	_, ok, err = store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := sampleRecord()
	require.NoError(t, store.Save(ctx, record))
	record.Cursor = 99

	loaded, _, err := store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Cursor)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	runStoreTests(t, NewFileStore(path))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Save(ctx, sampleRecord()))

	loaded, ok, err := NewFileStore(path).Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, loaded.Cursor)
}

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)
	runStoreTests(t, store)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecord()))
	_, ok, err := store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	_, ok, err = store.Load(ctx, "user-1", "mcpa-level-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
