package service

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
)

// DefaultMaxActiveProjects is the per-employee capacity the coordinator
// panel enforces when no limit is configured.
const DefaultMaxActiveProjects = 3

type policyService struct {
	projectRepo repository.ProjectRepository
	requestRepo repository.RequestRepository
	maxActive   int
}

// NewPolicyService builds the panel policies. maxActive <= 0 selects
// DefaultMaxActiveProjects.
func NewPolicyService(projectRepo repository.ProjectRepository, requestRepo repository.RequestRepository, maxActive int) PolicyService {
	if maxActive <= 0 {
		maxActive = DefaultMaxActiveProjects
	}
	return &policyService{projectRepo: projectRepo, requestRepo: requestRepo, maxActive: maxActive}
}

// EmployeeWorkload counts active projects per employee. Every built-in
// employee appears, with zero when idle.
func (s *policyService) EmployeeWorkload(ctx context.Context) (map[string]int, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	load := make(map[string]int)
	for _, e := range Employees() {
		load[e] = 0
	}
	for i := range projects {
		p := &projects[i]
		if !p.IsActive() || p.AssignedEmployee == "" {
			continue
		}
		load[domain.NormalizeUsername(p.AssignedEmployee)]++
	}
	return load, nil
}

func (s *policyService) CanAssign(ctx context.Context, employee string) (bool, error) {
	load, err := s.EmployeeWorkload(ctx)
	if err != nil {
		return false, err
	}
	return load[domain.NormalizeUsername(employee)] < s.maxActive, nil
}

// CanSubmit reports whether username may file a new request: no request
// pending and no project still active.
func (s *policyService) CanSubmit(ctx context.Context, username string) (bool, error) {
	name := domain.NormalizeUsername(username)

	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range requests {
		if domain.NormalizeUsername(r.RequestedBy) == name {
			return false, nil
		}
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range projects {
		if projects[i].IsActive() && domain.NormalizeUsername(projects[i].RequestedBy) == name {
			return false, nil
		}
	}
	return true, nil
}
