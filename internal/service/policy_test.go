package service_test

import (
	"context"
	"testing"

	"charity-workflow-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyService(t *testing.T) {
	ctx := context.Background()

	t.Run("Workload and capacity", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		var first string
		for i := 0; i < 3; i++ {
			p := approvedProject(t, f, "maria", "andrea")
			if i == 0 {
				first = p.ID
			}
		}
		approvedProject(t, f, "pedro", "luis")

		load, err := f.policy.EmployeeWorkload(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"andrea": 3, "luis": 1, "sergio": 0}, load)

		ok, err := f.policy.CanAssign(ctx, "andrea")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.lifecycle.Complete(ctx, first, "andrea")
		require.NoError(t, err)
		ok, err = f.policy.CanAssign(ctx, "Andrea")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Configured limit", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		policy := service.NewPolicyService(f.store.ProjectRepository, f.store.RequestRepository, 1)
		approvedProject(t, f, "maria", "sergio")
		ok, err := policy.CanAssign(ctx, "sergio")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Can submit", func(t *testing.T) {
		f := newFixture(t, service.LifecycleOptions{})
		ok, err := f.policy.CanSubmit(ctx, "maria")
		require.NoError(t, err)
		assert.True(t, ok)

		req, err := f.requests.Create(ctx, service.CreateRequestInput{Title: "Food Drive", RequestedBy: "maria"})
		require.NoError(t, err)
		ok, err = f.policy.CanSubmit(ctx, "MARIA")
		require.NoError(t, err)
		assert.False(t, ok)

		p, err := f.lifecycle.Approve(ctx, req.ID, "andrea")
		require.NoError(t, err)
		ok, err = f.policy.CanSubmit(ctx, "maria")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.lifecycle.Complete(ctx, p.ID, "andrea")
		require.NoError(t, err)
		ok, err = f.policy.CanSubmit(ctx, "maria")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestDataService_DumpAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.LifecycleOptions{})
	_, err := f.identity.Register(ctx, registerInput("maria"))
	require.NoError(t, err)
	p := approvedProject(t, f, "maria", "andrea")
	_, err = f.lifecycle.UploadFile(ctx, p.ID, p.Phases[0].ID, "a.pdf", "maria")
	require.NoError(t, err)
	_, err = f.requests.Create(ctx, service.CreateRequestInput{Title: "Second", RequestedBy: "maria"})
	require.NoError(t, err)

	snap, err := f.data.DumpAll(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Empty(t, snap.Users[0].Password)
	assert.Len(t, snap.Requests, 1)
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.Notifications, 1)
	assert.Empty(t, snap.Chat)
}
