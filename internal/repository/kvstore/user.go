package kvstore

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

type userRepository struct {
	kv storage.Store
}

func NewUserRepository(kv storage.Store) repository.UserRepository {
	return &userRepository{kv: kv}
}

func userKey(username string) string {
	return repository.PrefixUser + domain.NormalizeUsername(username)
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	return putJSON(ctx, r.kv, userKey(user.Username), user)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return getJSON[domain.User](ctx, r.kv, userKey(username))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return listJSON[domain.User](ctx, r.kv, repository.PrefixUser)
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	return r.kv.Delete(ctx, userKey(username))
}
