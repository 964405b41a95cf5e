package kvstore

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

type requestRepository struct {
	kv storage.Store
}

func NewRequestRepository(kv storage.Store) repository.RequestRepository {
	return &requestRepository{kv: kv}
}

func (r *requestRepository) Save(ctx context.Context, req *domain.Request) error {
	return putJSON(ctx, r.kv, repository.PrefixRequest+req.ID, req)
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	return getJSON[domain.Request](ctx, r.kv, repository.PrefixRequest+id)
}

func (r *requestRepository) List(ctx context.Context) ([]domain.Request, error) {
	return listJSON[domain.Request](ctx, r.kv, repository.PrefixRequest)
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, repository.PrefixRequest+id)
}
