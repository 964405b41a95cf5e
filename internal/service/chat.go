package service

import (
	"context"
	"fmt"
	"sort"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository"
)

type chatService struct {
	chatRepo repository.ChatRepository
	ids      IDGenerator
	clock    Clock
}

func NewChatService(chatRepo repository.ChatRepository, ids IDGenerator, clock Clock) ChatService {
	return &chatService{chatRepo: chatRepo, ids: ids, clock: clock}
}

// Send appends a message to a project's conversation. The project is not
// required to exist.
func (s *chatService) Send(ctx context.Context, in SendMessageInput) (*domain.ChatMessage, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		id = s.ids.NewID()
	}
	msg := &domain.ChatMessage{
		ID:         id,
		ProjectID:  in.ProjectID,
		Sender:     domain.NormalizeUsername(in.Sender),
		SenderRole: in.SenderRole,
		Message:    in.Message,
		Timestamp:  s.clock.Now(),
	}
	if err := s.chatRepo.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}
	return msg, nil
}

// ListForProject returns the conversation oldest first.
func (s *chatService) ListForProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error) {
	msgs, err := s.chatRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	return msgs, nil
}
