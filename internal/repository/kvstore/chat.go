package kvstore

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

type chatRepository struct {
	kv storage.Store
}

func NewChatRepository(kv storage.Store) repository.ChatRepository {
	return &chatRepository{kv: kv}
}

func chatPrefix(projectID string) string {
	return repository.PrefixChat + projectID + ":"
}

func (r *chatRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	return putJSON(ctx, r.kv, chatPrefix(msg.ProjectID)+msg.ID, msg)
}

func (r *chatRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error) {
	return listJSON[domain.ChatMessage](ctx, r.kv, chatPrefix(projectID))
}

func (r *chatRepository) List(ctx context.Context) ([]domain.ChatMessage, error) {
	return listJSON[domain.ChatMessage](ctx, r.kv, repository.PrefixChat)
}

// DeleteByProject removes every message key under the project and returns
// how many were deleted. Unparsable entries are removed as well.
func (r *chatRepository) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	entries, err := r.kv.ListByPrefix(ctx, chatPrefix(projectID))
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, e := range entries {
		if err := r.kv.Delete(ctx, e.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
