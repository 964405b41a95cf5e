package jobs

import (
	"context"
	"testing"
	"time"

	"charity-workflow-backend/internal/config"
	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository/kvstore"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"
	"charity-workflow-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) *JobRunner {
	t.Helper()
	store := kvstore.NewStore(storage.NewMemoryStore())
	ids := service.UUIDGenerator()
	clock := service.SystemClock()
	notes := service.NewNotificationService(store.NotificationRepository, ids, clock)
	services := &Services{
		Data:      service.NewDataService(store.UserRepository, store.RequestRepository, store.ProjectRepository, store.ChatRepository, store.NotificationRepository),
		Identity:  service.NewIdentityService(store.UserRepository, store.RequestRepository, store.ProjectRepository, store.ChatRepository, security.PlaintextHasher{}, ids, clock),
		Requests:  service.NewRequestService(store.RequestRepository, ids, clock),
		Lifecycle: service.NewLifecycleService(store.ProjectRepository, store.RequestRepository, notes, ids, clock, service.LifecycleOptions{}),
		Chat:      service.NewChatService(store.ChatRepository, ids, clock),
	}
	return NewJobRunner(store, services, &config.Config{})
}

func seedNotification(t *testing.T, jr *JobRunner, id, projectID string, read bool) {
	t.Helper()
	require.NoError(t, jr.store.NotificationRepository.Save(context.Background(), &domain.Notification{
		ID:                id,
		RecipientUsername: "maria",
		Type:              domain.NotificationPhaseApproved,
		ProjectID:         projectID,
		Read:              read,
		CreatedAt:         time.Now().UTC(),
	}))
}

func TestSweepOrphanedNotifications(t *testing.T) {
	ctx := context.Background()
	jr := newRunner(t)
	require.NoError(t, jr.store.ProjectRepository.Save(ctx, &domain.Project{ID: "alive", Status: domain.ProjectStatusApproved}))

	seedNotification(t, jr, "n1", "alive", false)
	seedNotification(t, jr, "n2", "gone", false)
	seedNotification(t, jr, "n3", "gone", true)
	seedNotification(t, jr, "n4", "also-gone", false)

	n, err := jr.sweepOrphanedNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	left, err := jr.store.NotificationRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "n1", left[0].ID)

	n, err = jr.sweepOrphanedNotifications(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDataCounts(t *testing.T) {
	ctx := context.Background()
	jr := newRunner(t)
	now := time.Now().UTC()
	require.NoError(t, jr.store.UserRepository.Save(ctx, &domain.User{ID: "u1", Username: "maria", Password: "pw"}))
	require.NoError(t, jr.store.RequestRepository.Save(ctx, &domain.Request{ID: "r1", Title: "Drive"}))
	require.NoError(t, jr.store.ProjectRepository.Save(ctx, &domain.Project{ID: "p1", Status: domain.ProjectStatusApproved}))
	require.NoError(t, jr.store.ProjectRepository.Save(ctx, &domain.Project{ID: "p2", Status: domain.ProjectStatusCompleted, CompletedAt: &now}))
	require.NoError(t, jr.store.ChatRepository.Save(ctx, &domain.ChatMessage{ID: "m1", ProjectID: "p1", Message: "hi"}))
	seedNotification(t, jr, "n1", "p1", false)
	seedNotification(t, jr, "n2", "p1", true)

	counts, err := jr.dataCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, DataCounts{
		Users:               1,
		Requests:            1,
		ActiveProjects:      1,
		CompletedProjects:   1,
		ChatMessages:        1,
		Notifications:       2,
		UnreadNotifications: 1,
	}, *counts)
}

func TestRunWithRecovery(t *testing.T) {
	jr := newRunner(t)
	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func() { panic("unexpected") })
	})
	assert.NotPanics(t, jr.RunAll)
}
