package mirror

import (
	"context"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/service"
)

// Remote is the set of mirror calls the decorators issue. *remote.Client
// satisfies it.
type Remote interface {
	Register(ctx context.Context, in service.RegisterInput) error
	DeleteUser(ctx context.Context, username string) error
	CreateRequest(ctx context.Context, in service.CreateRequestInput) error
	ApproveRequest(ctx context.Context, requestID, employeeID, projectID string) error
	RejectRequest(ctx context.Context, requestID string) error
	ListProjects(ctx context.Context) ([]domain.Project, error)
	UploadFile(ctx context.Context, projectID, phaseID, fileName, uploadedBy string) error
	ApprovePhase(ctx context.Context, projectID, phaseID, actor string) error
	ReturnPhase(ctx context.Context, projectID, phaseID, actor string) error
	CompleteProject(ctx context.Context, projectID, completedBy string) error
	SendMessage(ctx context.Context, in service.SendMessageInput) error
	CreateNotification(ctx context.Context, in service.CreateNotificationInput) error
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, username string) error
}

type identityMirror struct {
	service.IdentityService
	remote Remote
	d      *Dispatcher
}

// Identity mirrors registrations and deletions.
func Identity(next service.IdentityService, remote Remote, d *Dispatcher) service.IdentityService {
	return &identityMirror{IdentityService: next, remote: remote, d: d}
}

func (m *identityMirror) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	user, err := m.IdentityService.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	m.d.Go(ctx, "register", func(ctx context.Context) error {
		return m.remote.Register(ctx, in)
	})
	return user, nil
}

func (m *identityMirror) DeleteUser(ctx context.Context, username string) (*domain.DeletionSummary, error) {
	summary, err := m.IdentityService.DeleteUser(ctx, username)
	if err != nil {
		return nil, err
	}
	m.d.Go(ctx, "delete_user", func(ctx context.Context) error {
		return m.remote.DeleteUser(ctx, username)
	})
	return summary, nil
}

type requestMirror struct {
	service.RequestService
	remote Remote
	d      *Dispatcher
}

// Requests mirrors request creation and rejection. The local id is sent
// along so later approvals resolve on the remote.
func Requests(next service.RequestService, remote Remote, d *Dispatcher) service.RequestService {
	return &requestMirror{RequestService: next, remote: remote, d: d}
}

func (m *requestMirror) Create(ctx context.Context, in service.CreateRequestInput) (*domain.Request, error) {
	req, err := m.RequestService.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	in.ID = req.ID
	m.d.Go(ctx, "create_request", func(ctx context.Context) error {
		return m.remote.CreateRequest(ctx, in)
	})
	return req, nil
}

func (m *requestMirror) Reject(ctx context.Context, id string) error {
	if err := m.RequestService.Reject(ctx, id); err != nil {
		return err
	}
	m.d.Go(ctx, "reject_request", func(ctx context.Context) error {
		return m.remote.RejectRequest(ctx, id)
	})
	return nil
}

type lifecycleMirror struct {
	service.LifecycleService
	remote       Remote
	d            *Dispatcher
	compareReads bool
}

// Lifecycle mirrors every project transition. With compareReads set,
// ListProjects also fetches the remote list and logs a count mismatch.
func Lifecycle(next service.LifecycleService, remote Remote, d *Dispatcher, compareReads bool) service.LifecycleService {
	return &lifecycleMirror{LifecycleService: next, remote: remote, d: d, compareReads: compareReads}
}

func (m *lifecycleMirror) Approve(ctx context.Context, requestID, employeeID string, opts ...service.ApproveOption) (*domain.Project, error) {
	p, err := m.LifecycleService.Approve(ctx, requestID, employeeID, opts...)
	if err != nil {
		return nil, err
	}
	projectID := p.ID
	m.d.Go(ctx, "approve_request", func(ctx context.Context) error {
		return m.remote.ApproveRequest(ctx, requestID, employeeID, projectID)
	})
	return p, nil
}

func (m *lifecycleMirror) UploadFile(ctx context.Context, projectID, phaseID, fileName, uploadedBy string) (*domain.Project, error) {
	p, err := m.LifecycleService.UploadFile(ctx, projectID, phaseID, fileName, uploadedBy)
	if err != nil {
		return nil, err
	}
	m.d.Go(ctx, "upload_file", func(ctx context.Context) error {
		return m.remote.UploadFile(ctx, projectID, phaseID, fileName, uploadedBy)
	})
	return p, nil
}

func (m *lifecycleMirror) ApprovePhase(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error) {
	p, err := m.LifecycleService.ApprovePhase(ctx, projectID, phaseID, actor)
	if err != nil {
		return nil, err
	}
	m.d.Go(ctx, "approve_phase", func(ctx context.Context) error {
		return m.remote.ApprovePhase(ctx, projectID, phaseID, actor)
	})
	return p, nil
}

func (m *lifecycleMirror) ReturnPhase(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error) {
	p, err := m.LifecycleService.ReturnPhase(ctx, projectID, phaseID, actor)
	if err != nil {
		return nil, err
	}
	m.d.Go(ctx, "return_phase", func(ctx context.Context) error {
		return m.remote.ReturnPhase(ctx, projectID, phaseID, actor)
	})
	return p, nil
}

func (m *lifecycleMirror) Complete(ctx context.Context, projectID, completedBy string) (*domain.Project, error) {
	p, err := m.LifecycleService.Complete(ctx, projectID, completedBy)
	if err != nil {
		return nil, err
	}
	m.d.Go(ctx, "complete_project", func(ctx context.Context) error {
		return m.remote.CompleteProject(ctx, projectID, completedBy)
	})
	return p, nil
}

func (m *lifecycleMirror) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := m.LifecycleService.ListProjects(ctx)
	if err != nil || !m.compareReads {
		return projects, err
	}
	local := len(projects)
	m.d.Go(ctx, "compare_projects", func(ctx context.Context) error {
		remote, err := m.remote.ListProjects(ctx)
		if err != nil {
			return err
		}
		if len(remote) != local {
			logger.Warn("Remote project list diverges", "local", local, "remote", len(remote))
		}
		return nil
	})
	return projects, nil
}

type notificationMirror struct {
	service.NotificationService
	remote Remote
	d      *Dispatcher
}

// Notifications mirrors explicit notification writes. Notifications raised
// as lifecycle side effects are produced by the remote's own lifecycle.
func Notifications(next service.NotificationService, remote Remote, d *Dispatcher) service.NotificationService {
	return &notificationMirror{NotificationService: next, remote: remote, d: d}
}

func (m *notificationMirror) Create(ctx context.Context, in service.CreateNotificationInput) (*domain.Notification, error) {
	n, err := m.NotificationService.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	in.ID = n.ID
	m.d.Go(ctx, "create_notification", func(ctx context.Context) error {
		return m.remote.CreateNotification(ctx, in)
	})
	return n, nil
}

func (m *notificationMirror) MarkAsRead(ctx context.Context, id string) error {
	if err := m.NotificationService.MarkAsRead(ctx, id); err != nil {
		return err
	}
	m.d.Go(ctx, "mark_notification_read", func(ctx context.Context) error {
		return m.remote.MarkNotificationRead(ctx, id)
	})
	return nil
}

func (m *notificationMirror) MarkAllAsRead(ctx context.Context, username string) (int, error) {
	n, err := m.NotificationService.MarkAllAsRead(ctx, username)
	if err != nil {
		return 0, err
	}
	m.d.Go(ctx, "mark_all_notifications_read", func(ctx context.Context) error {
		return m.remote.MarkAllNotificationsRead(ctx, username)
	})
	return n, nil
}

type chatMirror struct {
	service.ChatService
	remote Remote
	d      *Dispatcher
}

func Chat(next service.ChatService, remote Remote, d *Dispatcher) service.ChatService {
	return &chatMirror{ChatService: next, remote: remote, d: d}
}

func (m *chatMirror) Send(ctx context.Context, in service.SendMessageInput) (*domain.ChatMessage, error) {
	msg, err := m.ChatService.Send(ctx, in)
	if err != nil {
		return nil, err
	}
	in.ID = msg.ID
	m.d.Go(ctx, "send_message", func(ctx context.Context) error {
		return m.remote.SendMessage(ctx, in)
	})
	return msg, nil
}
