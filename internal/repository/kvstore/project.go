package kvstore

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

type projectRepository struct {
	kv storage.Store
}

func NewProjectRepository(kv storage.Store) repository.ProjectRepository {
	return &projectRepository{kv: kv}
}

func (r *projectRepository) Save(ctx context.Context, p *domain.Project) error {
	return putJSON(ctx, r.kv, repository.PrefixProject+p.ID, p)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := getJSON[domain.Project](ctx, r.kv, repository.PrefixProject+id)
	if err != nil {
		return nil, err
	}
	normalizePhases(p)
	return p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := listJSON[domain.Project](ctx, r.kv, repository.PrefixProject)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		normalizePhases(&projects[i])
	}
	return projects, nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, repository.PrefixProject+id)
}

// normalizePhases turns a null files list into an empty one so callers
// always see [] for a phase without uploads.
func normalizePhases(p *domain.Project) {
	for i := range p.Phases {
		if p.Phases[i].Files == nil {
			p.Phases[i].Files = []domain.ProjectFile{}
		}
	}
}
