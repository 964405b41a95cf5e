package service_test

import (
	"context"
	"testing"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteInput(recipient string) service.CreateNotificationInput {
	return service.CreateNotificationInput{
		RecipientUsername: recipient,
		Type:              domain.NotificationPhaseApproved,
		ProjectID:         "p1",
		ProjectTitle:      "Food Drive",
		PhaseName:         "Planning",
		Message:           `Your phase "Planning" has been approved`,
	}
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()

	t.Run("Mark all as read", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		for i := 0; i < 3; i++ {
			_, err := f.notes.Create(ctx, noteInput("maria"))
			require.NoError(t, err)
		}
		_, err := f.notes.Create(ctx, noteInput("pedro"))
		require.NoError(t, err)

		n, err := f.notes.MarkAllAsRead(ctx, "maria")
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		notes, err := f.notes.ListForUser(ctx, "maria")
		require.NoError(t, err)
		require.Len(t, notes, 3)
		for _, note := range notes {
			assert.True(t, note.Read)
		}

		again, err := f.notes.MarkAllAsRead(ctx, "maria")
		require.NoError(t, err)
		assert.Zero(t, again)

		pedro, err := f.notes.ListForUser(ctx, "pedro")
		require.NoError(t, err)
		require.Len(t, pedro, 1)
		assert.False(t, pedro[0].Read)
	})

	t.Run("List newest first", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		var ids []string
		for i := 0; i < 3; i++ {
			n, err := f.notes.Create(ctx, noteInput("maria"))
			require.NoError(t, err)
			ids = append(ids, n.ID)
		}
		notes, err := f.notes.ListForUser(ctx, "maria")
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, ids[2], notes[0].ID)
		assert.Equal(t, ids[0], notes[2].ID)
	})

	t.Run("Mark one as read", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		n, err := f.notes.Create(ctx, noteInput("maria"))
		require.NoError(t, err)
		assert.False(t, n.Read)

		require.NoError(t, f.notes.MarkAsRead(ctx, n.ID))
		require.NoError(t, f.notes.MarkAsRead(ctx, "absent"))

		notes, err := f.notes.ListForUser(ctx, "maria")
		require.NoError(t, err)
		assert.True(t, notes[0].Read)
	})

	t.Run("Required fields", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		in := noteInput("")
		_, err := f.notes.Create(ctx, in)
		assert.ErrorIs(t, err, service.ErrValidation)

		in = noteInput("maria")
		in.Type = "party"
		_, err = f.notes.Create(ctx, in)
		assert.ErrorIs(t, err, service.ErrValidation)
	})
}
