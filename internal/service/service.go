package service

import (
	"context"

	"charity-workflow-backend/internal/domain"
)

type IdentityService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	DeleteUser(ctx context.Context, username string) (*domain.DeletionSummary, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	Roster() []ReservedAccount
}

type RequestService interface {
	Create(ctx context.Context, in CreateRequestInput) (*domain.Request, error)
	Get(ctx context.Context, id string) (*domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
	Reject(ctx context.Context, id string) error
}

type LifecycleService interface {
	Approve(ctx context.Context, requestID, employeeID string, opts ...ApproveOption) (*domain.Project, error)
	UploadFile(ctx context.Context, projectID, phaseID, fileName, uploadedBy string) (*domain.Project, error)
	ApprovePhase(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error)
	ReturnPhase(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error)
	Complete(ctx context.Context, projectID, completedBy string) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListActiveForUser(ctx context.Context, username string) ([]domain.Project, error)
	ListAssignedToEmployee(ctx context.Context, employee string) ([]domain.Project, error)
}

type NotificationService interface {
	Create(ctx context.Context, in CreateNotificationInput) (*domain.Notification, error)
	ListForUser(ctx context.Context, username string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, username string) (int, error)
}

type ChatService interface {
	Send(ctx context.Context, in SendMessageInput) (*domain.ChatMessage, error)
	ListForProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error)
}

type DataService interface {
	DumpAll(ctx context.Context) (*domain.DataSnapshot, error)
}

// PolicyService answers the assignment and submission questions the
// coordinator and user panels ask before calling the lifecycle engine.
type PolicyService interface {
	EmployeeWorkload(ctx context.Context) (map[string]int, error)
	CanAssign(ctx context.Context, employee string) (bool, error)
	CanSubmit(ctx context.Context, username string) (bool, error)
}

type RegisterInput struct {
	FullName string `json:"fullName" validate:"required"`
	Age      int    `json:"age" validate:"gte=1,lte=150"`
	Gender   string `json:"gender" validate:"required"`
	Username string `json:"username" validate:"required,max=64,excludes=:"`
	Password string `json:"password" validate:"required"`
}

// CreateRequestInput describes a new request. ID is normally empty; a
// mirrored call supplies the originating instance's id.
type CreateRequestInput struct {
	ID          string `json:"id,omitempty" validate:"omitempty,max=128,excludes=:"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	RequestedBy string `json:"requestedBy" validate:"required,max=64"`
}

type CreateNotificationInput struct {
	ID                string                  `json:"id,omitempty" validate:"omitempty,max=128,excludes=:"`
	RecipientUsername string                  `json:"recipientUsername" validate:"required,max=64"`
	Type              domain.NotificationType `json:"type" validate:"required,oneof=file_uploaded phase_approved phase_returned"`
	ProjectID         string                  `json:"projectId" validate:"required"`
	ProjectTitle      string                  `json:"projectTitle"`
	PhaseName         string                  `json:"phaseName"`
	Message           string                  `json:"message" validate:"required"`
	Metadata          map[string]string       `json:"metadata,omitempty"`
}

type SendMessageInput struct {
	ID         string            `json:"id,omitempty" validate:"omitempty,max=128,excludes=:"`
	ProjectID  string            `json:"projectId" validate:"required,max=128,excludes=:"`
	Sender     string            `json:"sender" validate:"required,max=64"`
	SenderRole domain.SenderRole `json:"senderRole" validate:"required,oneof=user employee"`
	Message    string            `json:"message" validate:"required"`
}

type approveOptions struct {
	projectID string
}

// ApproveOption tunes a single Approve call.
type ApproveOption func(*approveOptions)

// WithProjectID makes Approve use id for the new project instead of
// generating one. Mirrored approvals use it to keep ids aligned.
func WithProjectID(id string) ApproveOption {
	return func(o *approveOptions) { o.projectID = id }
}
