package kvstore

import (
	"context"
	"testing"
	"time"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CaseInsensitiveKey(t *testing.T) {
	kv := storage.NewMemoryStore()
	repo := NewUserRepository(kv)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.User{Username: "maria", FullName: "María González"}))

	u, err := repo.GetByUsername(ctx, "  MARIA ")
	require.NoError(t, err)
	assert.Equal(t, "María González", u.FullName)

	_, err = kv.Get(ctx, "user:maria")
	assert.NoError(t, err)
}

func TestGetJSON_CorruptValueReadsAsAbsent(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "project:broken", []byte(`{"id":`)))

	_, err := NewProjectRepository(kv).GetByID(ctx, "broken")
	assert.True(t, IsNotFound(err))
}

func TestListJSON_SkipsCorruptEntries(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	repo := NewRequestRepository(kv)
	require.NoError(t, repo.Save(ctx, &domain.Request{ID: "r1", Title: "Food Drive"}))
	require.NoError(t, kv.Set(ctx, "request:r2", []byte(`not json`)))

	reqs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "r1", reqs[0].ID)
}

func TestProjectRepository_NullFilesBecomeEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "project:p1", []byte(`{"id":"p1","phases":[{"id":"a","files":null},{"id":"b"}]}`)))

	p, err := NewProjectRepository(kv).GetByID(ctx, "p1")
	require.NoError(t, err)
	for _, ph := range p.Phases {
		assert.NotNil(t, ph.Files)
		assert.Empty(t, ph.Files)
	}
}

func TestChatRepository_ProjectIsolation(t *testing.T) {
	kv := storage.NewMemoryStore()
	repo := NewChatRepository(kv)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Save(ctx, &domain.ChatMessage{ID: "m1", ProjectID: "p1", Message: "hola", Timestamp: now}))
	require.NoError(t, repo.Save(ctx, &domain.ChatMessage{ID: "m2", ProjectID: "p1", Message: "qué tal", Timestamp: now}))
	require.NoError(t, repo.Save(ctx, &domain.ChatMessage{ID: "m3", ProjectID: "p11", Message: "otro", Timestamp: now}))

	msgs, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	n, err := repo.DeleteByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p11", all[0].ProjectID)
}

func TestNotificationRepository_ListByRecipient(t *testing.T) {
	kv := storage.NewMemoryStore()
	repo := NewNotificationRepository(kv)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Notification{ID: "n1", RecipientUsername: "andrea"}))
	require.NoError(t, repo.Save(ctx, &domain.Notification{ID: "n2", RecipientUsername: "maria"}))

	notes, err := repo.ListByRecipient(ctx, "andrea")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)

	// Records written with a differently cased recipient still match.
	require.NoError(t, repo.Save(ctx, &domain.Notification{ID: "n3", RecipientUsername: "Andrea"}))
	notes, err = repo.ListByRecipient(ctx, " ANDREA ")
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}
