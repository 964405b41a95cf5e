package kvstore

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

type notificationRepository struct {
	kv storage.Store
}

func NewNotificationRepository(kv storage.Store) repository.NotificationRepository {
	return &notificationRepository{kv: kv}
}

func (r *notificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	return putJSON(ctx, r.kv, repository.PrefixNotification+n.ID, n)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return getJSON[domain.Notification](ctx, r.kv, repository.PrefixNotification+id)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, username string) ([]domain.Notification, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	name := domain.NormalizeUsername(username)
	out := make([]domain.Notification, 0, len(all))
	for _, n := range all {
		if domain.NormalizeUsername(n.RecipientUsername) == name {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *notificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	return listJSON[domain.Notification](ctx, r.kv, repository.PrefixNotification)
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, repository.PrefixNotification+id)
}
