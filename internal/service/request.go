package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/storage"
)

type requestService struct {
	requestRepo repository.RequestRepository
	ids         IDGenerator
	clock       Clock
}

func NewRequestService(requestRepo repository.RequestRepository, ids IDGenerator, clock Clock) RequestService {
	return &requestService{requestRepo: requestRepo, ids: ids, clock: clock}
}

func (s *requestService) Create(ctx context.Context, in CreateRequestInput) (*domain.Request, error) {
	logger.EnterMethod("requestService.Create", "requestedBy", in.RequestedBy)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("requestService.Create", err)
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = s.ids.NewID()
	}
	req := &domain.Request{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		RequestedBy: domain.NormalizeUsername(in.RequestedBy),
		CreatedAt:   s.clock.Now(),
	}
	if err := s.requestRepo.Save(ctx, req); err != nil {
		logger.ExitMethodWithError("requestService.Create", err)
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	logger.Info("Request created", "requestID", req.ID, "requestedBy", req.RequestedBy)
	logger.ExitMethod("requestService.Create")
	return req, nil
}

func (s *requestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListAll returns every pending request, oldest first.
func (s *requestService) ListAll(ctx context.Context) ([]domain.Request, error) {
	reqs, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].CreatedAt.Before(reqs[j].CreatedAt) })
	return reqs, nil
}

// Reject drops a request. Rejecting an unknown id is not an error.
func (s *requestService) Reject(ctx context.Context, id string) error {
	logger.EnterMethod("requestService.Reject", "requestID", id)
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("requestService.Reject", err)
		return fmt.Errorf("failed to delete request: %w", err)
	}
	logger.ExitMethod("requestService.Reject")
	return nil
}
