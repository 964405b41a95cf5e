package service_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"charity-workflow-backend/internal/repository/kvstore"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"
	"charity-workflow-backend/internal/storage"
)

// stepClock advances one second on every call so ordering is deterministic.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n)
}

type fixture struct {
	store     *kvstore.Store
	identity  service.IdentityService
	requests  service.RequestService
	lifecycle service.LifecycleService
	notes     service.NotificationService
	chat      service.ChatService
	policy    service.PolicyService
	data      service.DataService
}

func newFixture(t *testing.T, opts service.LifecycleOptions) *fixture {
	t.Helper()
	store := kvstore.NewStore(storage.NewMemoryStore())
	ids := &seqIDs{}
	clock := newStepClock()
	if opts.FileSize == nil {
		opts.FileSize = func() string { return "512 KB" }
	}

	notes := service.NewNotificationService(store.NotificationRepository, ids, clock)
	return &fixture{
		store:     store,
		identity:  service.NewIdentityService(store.UserRepository, store.RequestRepository, store.ProjectRepository, store.ChatRepository, security.PlaintextHasher{}, ids, clock),
		requests:  service.NewRequestService(store.RequestRepository, ids, clock),
		lifecycle: service.NewLifecycleService(store.ProjectRepository, store.RequestRepository, notes, ids, clock, opts),
		notes:     notes,
		chat:      service.NewChatService(store.ChatRepository, ids, clock),
		policy:    service.NewPolicyService(store.ProjectRepository, store.RequestRepository, 0),
		data:      service.NewDataService(store.UserRepository, store.RequestRepository, store.ProjectRepository, store.ChatRepository, store.NotificationRepository),
	}
}
