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

// LifecycleOptions tunes the project lifecycle engine.
type LifecycleOptions struct {
	// RequireApprovedPhases makes Complete refuse projects whose phases are
	// not all approved.
	RequireApprovedPhases bool
	// FileSize fabricates the size recorded for an upload. Defaults to
	// RandomSize.
	FileSize SizeSource
}

type lifecycleService struct {
	projectRepo repository.ProjectRepository
	requestRepo repository.RequestRepository
	noteSvc     NotificationService
	ids         IDGenerator
	clock       Clock
	opts        LifecycleOptions
	locks       *keyedMutex
}

func NewLifecycleService(
	projectRepo repository.ProjectRepository,
	requestRepo repository.RequestRepository,
	noteSvc NotificationService,
	ids IDGenerator,
	clock Clock,
	opts LifecycleOptions,
) LifecycleService {
	if opts.FileSize == nil {
		opts.FileSize = RandomSize
	}
	return &lifecycleService{
		projectRepo: projectRepo,
		requestRepo: requestRepo,
		noteSvc:     noteSvc,
		ids:         ids,
		clock:       clock,
		opts:        opts,
		locks:       newKeyedMutex(),
	}
}

// Approve converts a pending request into a project with the three template
// phases, all pending, and removes the request.
func (s *lifecycleService) Approve(ctx context.Context, requestID, employeeID string, opts ...ApproveOption) (*domain.Project, error) {
	logger.EnterMethod("lifecycleService.Approve", "requestID", requestID, "employee", employeeID)

	employeeID = domain.NormalizeUsername(employeeID)

	var o approveOptions
	for _, opt := range opts {
		opt(&o)
	}

	unlock := s.locks.Lock(repository.PrefixRequest + requestID)
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.ExitMethodWithError("lifecycleService.Approve", ErrRequestNotFound, "requestID", requestID)
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	projectID := o.projectID
	if projectID == "" {
		projectID = s.ids.NewID()
	}
	project := &domain.Project{
		ID:               projectID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		RequestedBy:      req.RequestedBy,
		Status:           domain.ProjectStatusApproved,
		CreatedAt:        req.CreatedAt,
		AssignedEmployee: employeeID,
		Phases:           newPhases(projectID),
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		logger.ExitMethodWithError("lifecycleService.Approve", err)
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := s.requestRepo.Delete(ctx, requestID); err != nil {
		logger.ExitMethodWithError("lifecycleService.Approve", err)
		return nil, fmt.Errorf("failed to delete approved request: %w", err)
	}

	logger.Info("Request approved", "requestID", requestID, "projectID", project.ID, "employee", employeeID)
	logger.ExitMethod("lifecycleService.Approve")
	return project, nil
}

// newPhases builds the template triplet. Phase ids derive from the project
// id, so they are unique per project and line up across mirrored instances.
func newPhases(projectID string) []domain.Phase {
	phases := make([]domain.Phase, 0, domain.PhaseCount)
	for i, tpl := range domain.PhaseTemplates {
		phases = append(phases, domain.Phase{
			ID:          fmt.Sprintf("%s-phase-%d", projectID, i+1),
			Name:        tpl.Name,
			Description: tpl.Description,
			Status:      domain.PhaseStatusPending,
			Files:       []domain.ProjectFile{},
		})
	}
	return phases
}

// mutatePhase runs fn on one phase of a project under the project lock and
// persists the result.
func (s *lifecycleService) mutatePhase(ctx context.Context, projectID, phaseID string, fn func(p *domain.Project, ph *domain.Phase)) (*domain.Project, *domain.Phase, error) {
	unlock := s.locks.Lock(repository.PrefixProject + projectID)
	defer unlock()

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	phase, ok := project.Phase(phaseID)
	if !ok {
		return nil, nil, ErrPhaseNotFound
	}
	fn(project, phase)
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, nil, fmt.Errorf("failed to save project: %w", err)
	}
	return project, phase, nil
}

func (s *lifecycleService) loadProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func (s *lifecycleService) UploadFile(ctx context.Context, projectID, phaseID, fileName, uploadedBy string) (*domain.Project, error) {
	logger.EnterMethod("lifecycleService.UploadFile", "projectID", projectID, "phaseID", phaseID, "file", fileName)

	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	uploadedBy = domain.NormalizeUsername(uploadedBy)

	project, phase, err := s.mutatePhase(ctx, projectID, phaseID, func(_ *domain.Project, ph *domain.Phase) {
		ph.Files = append(ph.Files, domain.ProjectFile{
			ID:         s.ids.NewID(),
			Name:       fileName,
			UploadedBy: uploadedBy,
			UploadedAt: s.clock.Now(),
			Size:       s.opts.FileSize(),
		})
	})
	if err != nil {
		logger.ExitMethodWithError("lifecycleService.UploadFile", err)
		return nil, err
	}

	if project.AssignedEmployee != "" {
		s.notify(ctx, CreateNotificationInput{
			RecipientUsername: project.AssignedEmployee,
			Type:              domain.NotificationFileUploaded,
			ProjectID:         project.ID,
			ProjectTitle:      project.Title,
			PhaseName:         phase.Name,
			Message:           fmt.Sprintf("%s uploaded a file in %s", uploadedBy, phase.Name),
			Metadata:          map[string]string{"fileName": fileName, "senderUsername": uploadedBy},
		})
	}

	logger.ExitMethod("lifecycleService.UploadFile")
	return project, nil
}

func (s *lifecycleService) ApprovePhase(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error) {
	logger.EnterMethod("lifecycleService.ApprovePhase", "projectID", projectID, "phaseID", phaseID)

	project, phase, err := s.mutatePhase(ctx, projectID, phaseID, func(_ *domain.Project, ph *domain.Phase) {
		ph.Status = domain.PhaseStatusApproved
	})
	if err != nil {
		logger.ExitMethodWithError("lifecycleService.ApprovePhase", err)
		return nil, err
	}

	s.notify(ctx, CreateNotificationInput{
		RecipientUsername: project.RequestedBy,
		Type:              domain.NotificationPhaseApproved,
		ProjectID:         project.ID,
		ProjectTitle:      project.Title,
		PhaseName:         phase.Name,
		Message:           fmt.Sprintf("Your phase %q has been approved", phase.Name),
		Metadata:          senderMetadata(actor),
	})

	logger.ExitMethod("lifecycleService.ApprovePhase")
	return project, nil
}

// ReturnPhase sends a phase back for corrections and discards its files.
func (s *lifecycleService) ReturnPhase(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error) {
	logger.EnterMethod("lifecycleService.ReturnPhase", "projectID", projectID, "phaseID", phaseID)

	project, phase, err := s.mutatePhase(ctx, projectID, phaseID, func(_ *domain.Project, ph *domain.Phase) {
		ph.Status = domain.PhaseStatusReturned
		ph.Files = []domain.ProjectFile{}
	})
	if err != nil {
		logger.ExitMethodWithError("lifecycleService.ReturnPhase", err)
		return nil, err
	}

	s.notify(ctx, CreateNotificationInput{
		RecipientUsername: project.RequestedBy,
		Type:              domain.NotificationPhaseReturned,
		ProjectID:         project.ID,
		ProjectTitle:      project.Title,
		PhaseName:         phase.Name,
		Message:           fmt.Sprintf("Your phase %q needs corrections", phase.Name),
		Metadata:          senderMetadata(actor),
	})

	logger.ExitMethod("lifecycleService.ReturnPhase")
	return project, nil
}

// Complete marks the project completed. Calling it again re-stamps
// completedBy and completedAt.
func (s *lifecycleService) Complete(ctx context.Context, projectID, completedBy string) (*domain.Project, error) {
	logger.EnterMethod("lifecycleService.Complete", "projectID", projectID, "completedBy", completedBy)

	unlock := s.locks.Lock(repository.PrefixProject + projectID)
	defer unlock()

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		logger.ExitMethodWithError("lifecycleService.Complete", err)
		return nil, err
	}
	if s.opts.RequireApprovedPhases && project.ApprovedPhases() < len(project.Phases) {
		logger.ExitMethodWithError("lifecycleService.Complete", ErrPhasesIncomplete, "approved", project.ApprovedPhases())
		return nil, ErrPhasesIncomplete
	}

	now := s.clock.Now()
	project.Status = domain.ProjectStatusCompleted
	project.CompletedBy = completedBy
	project.CompletedAt = &now
	if err := s.projectRepo.Save(ctx, project); err != nil {
		logger.ExitMethodWithError("lifecycleService.Complete", err)
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	logger.Info("Project completed", "projectID", project.ID, "completedBy", completedBy)
	logger.ExitMethod("lifecycleService.Complete")
	return project, nil
}

func (s *lifecycleService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.loadProject(ctx, id)
}

// ListProjects returns every project, oldest first.
func (s *lifecycleService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })
	return projects, nil
}

func (s *lifecycleService) ListActiveForUser(ctx context.Context, username string) ([]domain.Project, error) {
	name := domain.NormalizeUsername(username)
	return s.filterProjects(ctx, func(p *domain.Project) bool {
		return p.IsActive() && domain.NormalizeUsername(p.RequestedBy) == name
	})
}

func (s *lifecycleService) ListAssignedToEmployee(ctx context.Context, employee string) ([]domain.Project, error) {
	name := domain.NormalizeUsername(employee)
	return s.filterProjects(ctx, func(p *domain.Project) bool {
		return p.IsActive() && domain.NormalizeUsername(p.AssignedEmployee) == name
	})
}

func (s *lifecycleService) filterProjects(ctx context.Context, keep func(*domain.Project) bool) ([]domain.Project, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(projects))
	for i := range projects {
		if keep(&projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out, nil
}

// notify records a side-effect notification. Failures are logged and never
// fail the lifecycle operation that triggered them.
func (s *lifecycleService) notify(ctx context.Context, in CreateNotificationInput) {
	if _, err := s.noteSvc.Create(ctx, in); err != nil {
		logger.Warn("Failed to create notification",
			"recipient", in.RecipientUsername,
			"type", in.Type,
			"projectID", in.ProjectID,
			"error", err,
		)
	}
}

func senderMetadata(actor string) map[string]string {
	if actor == "" {
		return nil
	}
	return map[string]string{"senderUsername": actor}
}
