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

type notificationService struct {
	noteRepo repository.NotificationRepository
	ids      IDGenerator
	clock    Clock
	locks    *keyedMutex
}

func NewNotificationService(noteRepo repository.NotificationRepository, ids IDGenerator, clock Clock) NotificationService {
	return &notificationService{noteRepo: noteRepo, ids: ids, clock: clock, locks: newKeyedMutex()}
}

func (s *notificationService) Create(ctx context.Context, in CreateNotificationInput) (*domain.Notification, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	id := in.ID
	if id == "" {
		id = s.ids.NewID()
	}
	note := &domain.Notification{
		ID:                id,
		RecipientUsername: domain.NormalizeUsername(in.RecipientUsername),
		Type:              in.Type,
		ProjectID:         in.ProjectID,
		ProjectTitle:      in.ProjectTitle,
		PhaseName:         in.PhaseName,
		Message:           in.Message,
		CreatedAt:         s.clock.Now(),
		Metadata:          in.Metadata,
	}
	if err := s.noteRepo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	logger.Debug("Notification created", "notificationID", note.ID, "recipient", note.RecipientUsername, "type", note.Type)
	return note, nil
}

// ListForUser returns the recipient's notifications, newest first.
func (s *notificationService) ListForUser(ctx context.Context, username string) ([]domain.Notification, error) {
	notes, err := s.noteRepo.ListByRecipient(ctx, username)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes, nil
}

// MarkAsRead flags one notification. An unknown id is a no-op.
func (s *notificationService) MarkAsRead(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if note.Read {
		return nil
	}
	note.Read = true
	return s.noteRepo.Save(ctx, note)
}

// MarkAllAsRead flags every unread notification of username and returns
// how many changed.
func (s *notificationService) MarkAllAsRead(ctx context.Context, username string) (int, error) {
	notes, err := s.noteRepo.ListByRecipient(ctx, username)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notes {
		if n.Read {
			continue
		}
		if err := s.MarkAsRead(ctx, n.ID); err != nil {
			return count, fmt.Errorf("failed to mark notification %s: %w", n.ID, err)
		}
		count++
	}
	return count, nil
}
