package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"charity-workflow-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const defaultNamespace = "charity"

// RedisClient is the subset of the go-redis client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// RedisStore keeps entries as plain string values under "<namespace>:<key>".
type RedisStore struct {
	client    RedisClient
	namespace string
}

func NewRedisStore(client RedisClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	logger.StoreCall(BackendRedis, "GET", key)
	b, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		logger.StoreResult(BackendRedis, "GET", key, err)
		return nil, err
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	logger.StoreCall(BackendRedis, "SET", key)
	err := s.client.Set(ctx, s.fullKey(key), value, 0).Err()
	if err != nil {
		logger.StoreResult(BackendRedis, "SET", key, err)
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	logger.StoreCall(BackendRedis, "DEL", key)
	return s.client.Del(ctx, s.fullKey(key)).Err()
}

// ListByPrefix walks the keyspace with SCAN and fetches values in batches.
// Keys deleted between SCAN and MGET are skipped.
func (s *RedisStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	logger.StoreCall(BackendRedis, "SCAN", prefix)
	pattern := globEscaper.Replace(s.fullKey(prefix)) + "*"
	var (
		cursor uint64
		out    []Entry
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 256).Result()
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			vals, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for i, v := range vals {
				str, ok := v.(string)
				if !ok {
					continue
				}
				out = append(out, Entry{Key: s.stripNamespace(keys[i]), Value: []byte(str)})
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) fullKey(key string) string {
	return s.namespace + ":" + key
}

func (s *RedisStore) stripNamespace(full string) string {
	return strings.TrimPrefix(full, s.namespace+":")
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
