package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New("abc", DefaultLimits)
	s.AddMessage(Message{Role: RoleUser, Content: "find samsung", Intent: model.IntentSearchProduct})
	require.NoError(t, store.Save(ctx, s))

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.ID)
	require.Len(t, loaded.ChatHistory, 1)
	assert.Equal(t, model.IntentSearchProduct, loaded.ChatHistory[0].Intent)

	// mutating the loaded copy does not leak into the store
	loaded.AddMessage(Message{Role: RoleAssistant, Content: "ok"})
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, again.ChatHistory, 1)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	require.NoError(t, store.Save(context.Background(), New("gone", DefaultLimits)))

	time.Sleep(5 * time.Millisecond)
	_, err := store.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)

	require.NoError(t, store.Save(context.Background(), New("ttl", DefaultLimits)))
	assert.Equal(t, time.Minute, mr.TTL("shopassist:session:ttl"))

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(context.Background(), "ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}

func TestLoadOrCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	created, err := LoadOrCreate(ctx, store, "", DefaultLimits)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	named, err := LoadOrCreate(ctx, store, "u1", DefaultLimits)
	require.NoError(t, err)
	named.AddSearch("tv", 1)
	require.NoError(t, store.Save(ctx, named))

	loaded, err := LoadOrCreate(ctx, store, "u1", DefaultLimits)
	require.NoError(t, err)
	assert.Len(t, loaded.SearchHistory, 1)
}
