package jobs

import (
	"context"
	"errors"
	"fmt"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/service"
)

const (
	seedProjectID = "test-project-1"
	seedPassword  = "1234"
)

var seedUsers = []service.RegisterInput{
	{FullName: "María González", Age: 25, Gender: "Femenino", Username: "maria", Password: seedPassword},
	{FullName: "Juan Pérez", Age: 30, Gender: "Masculino", Username: "juan", Password: seedPassword},
}

var seedRequests = []service.CreateRequestInput{
	{
		ID:          "test-request-1",
		Title:       "Campaña de donación de alimentos",
		Description: "Organizar una campaña de recolección de alimentos para comunidades vulnerables",
		Category:    "Alimentación",
		RequestedBy: "maria",
	},
	{
		ID:          "test-request-2",
		Title:       "Programa de educación ambiental",
		Description: "Desarrollar talleres educativos sobre reciclaje y cuidado del medio ambiente",
		Category:    "Educación",
		RequestedBy: "juan",
	},
}

// SeedSummary counts what SeedTestData wrote. Skipped is set when the data
// set was already present.
type SeedSummary struct {
	Users    int
	Requests int
	Projects int
	Messages int
	Skipped  bool
}

// SeedTestData fills an empty store with two users, two pending requests and
// one project in progress with a short conversation. It is run on demand only.
func (jr *JobRunner) SeedTestData() {
	jr.runWithRecovery("SeedTestData", func() {
		summary, err := jr.seedTestData(context.Background())
		if err != nil {
			logger.Error("Failed to seed test data", "error", err)
			return
		}
		if summary.Skipped {
			logger.Info("Test data already present, nothing seeded")
			return
		}
		logger.Info("Test data seeded",
			"users", summary.Users,
			"requests", summary.Requests,
			"projects", summary.Projects,
			"messages", summary.Messages,
		)
	})
}

func (jr *JobRunner) seedTestData(ctx context.Context) (SeedSummary, error) {
	var summary SeedSummary
	svc := jr.services

	for _, in := range seedUsers {
		_, err := svc.Identity.Register(ctx, in)
		if errors.Is(err, service.ErrUsernameTaken) {
			if summary.Users == 0 {
				summary.Skipped = true
				return summary, nil
			}
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("failed to register %s: %w", in.Username, err)
		}
		summary.Users++
	}

	for _, in := range seedRequests {
		if _, err := svc.Requests.Create(ctx, in); err != nil {
			return summary, fmt.Errorf("failed to create request %s: %w", in.ID, err)
		}
		summary.Requests++
	}

	req, err := svc.Requests.Create(ctx, service.CreateRequestInput{
		ID:          "test-request-3",
		Title:       "Jornada de salud comunitaria",
		Description: "Organizar jornadas médicas gratuitas en zonas rurales",
		Category:    "Salud",
		RequestedBy: "maria",
	})
	if err != nil {
		return summary, fmt.Errorf("failed to create project request: %w", err)
	}
	project, err := svc.Lifecycle.Approve(ctx, req.ID, "andrea", service.WithProjectID(seedProjectID))
	if err != nil {
		return summary, fmt.Errorf("failed to approve project request: %w", err)
	}
	summary.Projects++

	planning := project.Phases[0].ID
	if _, err := svc.Lifecycle.UploadFile(ctx, project.ID, planning, "Plan_de_trabajo.pdf", "maria"); err != nil {
		return summary, fmt.Errorf("failed to upload seed file: %w", err)
	}
	if _, err := svc.Lifecycle.ApprovePhase(ctx, project.ID, planning, "andrea"); err != nil {
		return summary, fmt.Errorf("failed to approve seed phase: %w", err)
	}

	messages := []service.SendMessageInput{
		{ID: "chat-1", ProjectID: project.ID, Sender: "maria", SenderRole: domain.SenderRoleUser, Message: "Hola, ya subí el documento de planificación"},
		{ID: "chat-2", ProjectID: project.ID, Sender: "andrea", SenderRole: domain.SenderRoleEmployee, Message: "Perfecto, voy a revisarlo"},
	}
	for _, in := range messages {
		if _, err := svc.Chat.Send(ctx, in); err != nil {
			return summary, fmt.Errorf("failed to send seed message: %w", err)
		}
		summary.Messages++
	}

	return summary, nil
}
