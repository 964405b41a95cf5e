package jobs

import (
	"context"
	"errors"
	"fmt"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/storage"
)

// SweepOrphanedNotifications deletes notifications that point at a project
// which no longer exists, typically left behind by a user deletion.
func (jr *JobRunner) SweepOrphanedNotifications() {
	jr.runWithRecovery("SweepOrphanedNotifications", func() {
		n, err := jr.sweepOrphanedNotifications(context.Background())
		if err != nil {
			logger.Error("Failed to sweep orphaned notifications", "error", err, "deleted", n)
			return
		}
		logger.Info("Orphaned notifications swept", "deleted", n)
	})
}

func (jr *JobRunner) sweepOrphanedNotifications(ctx context.Context) (int, error) {
	notes, err := jr.store.NotificationRepository.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	exists := make(map[string]bool)
	deleted := 0
	for _, n := range notes {
		alive, seen := exists[n.ProjectID]
		if !seen {
			_, err := jr.store.ProjectRepository.GetByID(ctx, n.ProjectID)
			switch {
			case err == nil:
				alive = true
			case errors.Is(err, storage.ErrNotFound):
				alive = false
			default:
				return deleted, fmt.Errorf("failed to load project %s: %w", n.ProjectID, err)
			}
			exists[n.ProjectID] = alive
		}
		if alive {
			continue
		}
		if err := jr.store.NotificationRepository.Delete(ctx, n.ID); err != nil {
			return deleted, fmt.Errorf("failed to delete notification %s: %w", n.ID, err)
		}
		logger.Debug("Deleted orphaned notification", "notificationID", n.ID, "projectID", n.ProjectID)
		deleted++
	}
	return deleted, nil
}

// DataCounts summarises the stored data set.
type DataCounts struct {
	Users               int
	Requests            int
	ActiveProjects      int
	CompletedProjects   int
	ChatMessages        int
	Notifications       int
	UnreadNotifications int
}

// LogDataSnapshot logs how many records of each kind are stored.
func (jr *JobRunner) LogDataSnapshot() {
	jr.runWithRecovery("LogDataSnapshot", func() {
		counts, err := jr.dataCounts(context.Background())
		if err != nil {
			logger.Error("Failed to take data snapshot", "error", err)
			return
		}
		logger.Info("Data snapshot",
			"users", counts.Users,
			"requests", counts.Requests,
			"active_projects", counts.ActiveProjects,
			"completed_projects", counts.CompletedProjects,
			"chat_messages", counts.ChatMessages,
			"notifications", counts.Notifications,
			"unread_notifications", counts.UnreadNotifications,
		)
	})
}

func (jr *JobRunner) dataCounts(ctx context.Context) (*DataCounts, error) {
	snap, err := jr.services.Data.DumpAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := &DataCounts{
		Users:         len(snap.Users),
		Requests:      len(snap.Requests),
		ChatMessages:  len(snap.Chat),
		Notifications: len(snap.Notifications),
	}
	for _, p := range snap.Projects {
		if p.Status == domain.ProjectStatusCompleted {
			counts.CompletedProjects++
		} else {
			counts.ActiveProjects++
		}
	}
	for _, n := range snap.Notifications {
		if !n.Read {
			counts.UnreadNotifications++
		}
	}
	return counts, nil
}
