package service

import (
	"context"
	"fmt"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
)

type dataService struct {
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	projectRepo repository.ProjectRepository
	chatRepo    repository.ChatRepository
	noteRepo    repository.NotificationRepository
}

func NewDataService(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	projectRepo repository.ProjectRepository,
	chatRepo repository.ChatRepository,
	noteRepo repository.NotificationRepository,
) DataService {
	return &dataService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		projectRepo: projectRepo,
		chatRepo:    chatRepo,
		noteRepo:    noteRepo,
	}
}

// DumpAll returns every stored record. Passwords are stripped.
func (s *dataService) DumpAll(ctx context.Context) (*domain.DataSnapshot, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	chat, err := s.chatRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat: %w", err)
	}
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return &domain.DataSnapshot{
		Users:         users,
		Requests:      requests,
		Projects:      projects,
		Chat:          chat,
		Notifications: notes,
	}, nil
}
