package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

// Store bundles every repository over one durable store.
type Store struct {
	kv storage.Store
	repository.UserRepository
	repository.RequestRepository
	repository.ProjectRepository
	repository.ChatRepository
	repository.NotificationRepository
}

func NewStore(kv storage.Store) *Store {
	return &Store{
		kv:                     kv,
		UserRepository:         NewUserRepository(kv),
		RequestRepository:      NewRequestRepository(kv),
		ProjectRepository:      NewProjectRepository(kv),
		ChatRepository:         NewChatRepository(kv),
		NotificationRepository: NewNotificationRepository(kv),
	}
}

// KV exposes the underlying durable store.
func (s *Store) KV() storage.Store {
	return s.kv
}

func putJSON(ctx context.Context, kv storage.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}

// getJSON decodes the value at key. A value that no longer parses is
// reported as storage.ErrNotFound so a corrupt record degrades to absent.
func getJSON[T any](ctx context.Context, kv storage.Store, key string) (*T, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Discarding unparsable record", "key", key, "error", err)
		return nil, storage.ErrNotFound
	}
	return &v, nil
}

// listJSON decodes every entry under prefix, skipping unparsable ones.
func listJSON[T any](ctx context.Context, kv storage.Store, prefix string) ([]T, error) {
	entries, err := kv.ListByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			logger.Warn("Skipping unparsable record", "key", e.Key, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// IsNotFound reports whether err means the key is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
