package repository

import (
	"context"

	"charity-workflow-backend/internal/domain"
)

// Key prefixes of the durable store layout.
const (
	PrefixUser         = "user:"
	PrefixRequest      = "request:"
	PrefixProject      = "project:"
	PrefixChat         = "chat:"
	PrefixNotification = "notification:"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, username string) error
}

type RequestRepository interface {
	Save(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	List(ctx context.Context) ([]domain.Request, error)
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Save(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type ChatRepository interface {
	Save(ctx context.Context, msg *domain.ChatMessage) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error)
	List(ctx context.Context) ([]domain.ChatMessage, error)
	DeleteByProject(ctx context.Context, projectID string) (int, error)
}

type NotificationRepository interface {
	Save(ctx context.Context, note *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, username string) ([]domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
	Delete(ctx context.Context, id string) error
}
