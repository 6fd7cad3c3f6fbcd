package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

func newTestStore(t *testing.T, ttl time.Duration, max int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreFromClient(client, ttl, max), mr
}

func TestRedisStore_AppendAndLoad(t *testing.T) {
	store, mr := newTestStore(t, 30*time.Minute, 50)
	ctx := context.Background()

	msgs, err := store.Load(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, store.Append(ctx, "s1",
		model.Message{Role: model.RoleUser, Content: "Land in Galle"},
		model.Message{Role: model.RoleAssistant, Content: "What is your budget?"},
	))
	require.NoError(t, store.Append(ctx, "s1", model.Message{Role: model.RoleUser, Content: "1 crore"}))

	msgs, err = store.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Land in Galle", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "1 crore", msgs[2].Content)

	assert.True(t, mr.Exists("chat:session:s1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("chat:session:s1"))
}

func TestRedisStore_CapsMessages(t *testing.T) {
	store, _ := newTestStore(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "s", model.Message{Role: model.RoleUser, Content: fmt.Sprintf("m%d", i)}))
	}

	msgs, err := store.Load(ctx, "s")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m2", msgs[0].Content)
	assert.Equal(t, "m4", msgs[2].Content)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute, 10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s", model.Message{Role: model.RoleUser, Content: "hi"}))
	mr.FastForward(2 * time.Minute)

	msgs, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRedisStore_ClearAndCorruptData(t *testing.T) {
	store, mr := newTestStore(t, time.Minute, 10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s", model.Message{Role: model.RoleUser, Content: "hi"}))
	require.NoError(t, store.Clear(ctx, "s"))
	assert.False(t, mr.Exists("chat:session:s"))

	_, err := mr.RPush("chat:session:bad", "not json")
	require.NoError(t, err)
	_, err = store.Load(ctx, "bad")
	assert.Error(t, err)

	assert.NoError(t, store.Append(ctx, "s"))
	assert.NoError(t, store.Ping(ctx))
}
