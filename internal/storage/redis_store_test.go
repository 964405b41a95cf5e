package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, "test"), mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newTestRedisStore(t)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore_Namespacing(t *testing.T) {
	s, mr := newTestRedisStore(t)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user:luisa", []byte(`{"username":"luisa"}`)))
	assert.True(t, mr.Exists("test:user:luisa"))

	require.NoError(t, mr.Set("other:user:ghost", `{}`))
	entries, err := s.ListByPrefix(ctx, "user:")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user:luisa", entries[0].Key)
}

func TestRedisStore_PrefixWithGlobCharacters(t *testing.T) {
	s, _ := newTestRedisStore(t)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "chat:p*:a", []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "chat:pX:b", []byte(`{}`)))

	entries, err := s.ListByPrefix(ctx, "chat:p*:")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chat:p*:a", entries[0].Key)
}
