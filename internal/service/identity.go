package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/repository"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/storage"
)

// ReservedAccount is a built-in account that exists without a User record.
type ReservedAccount struct {
	Username string          `json:"username"`
	FullName string          `json:"fullName"`
	Role     domain.UserRole `json:"role"`
	password string
}

const reservedPassword = "1234"

var reservedAccounts = []ReservedAccount{
	{Username: "admin", FullName: "Main Coordinator", Role: domain.UserRoleCoordinator, password: reservedPassword},
	{Username: "andrea", FullName: "Andrea", Role: domain.UserRoleEmployee, password: reservedPassword},
	{Username: "luis", FullName: "Luis", Role: domain.UserRoleEmployee, password: reservedPassword},
	{Username: "sergio", FullName: "Sergio", Role: domain.UserRoleEmployee, password: reservedPassword},
}

func findReserved(username string) (ReservedAccount, bool) {
	name := domain.NormalizeUsername(username)
	for _, a := range reservedAccounts {
		if a.Username == name {
			return a, true
		}
	}
	return ReservedAccount{}, false
}

// IsReserved reports whether username belongs to a built-in account.
func IsReserved(username string) bool {
	_, ok := findReserved(username)
	return ok
}

// Employees lists the usernames of the built-in employee accounts.
func Employees() []string {
	var out []string
	for _, a := range reservedAccounts {
		if a.Role == domain.UserRoleEmployee {
			out = append(out, a.Username)
		}
	}
	return out
}

type identityService struct {
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	projectRepo repository.ProjectRepository
	chatRepo    repository.ChatRepository
	hasher      security.PasswordHasher
	ids         IDGenerator
	clock       Clock
}

func NewIdentityService(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	projectRepo repository.ProjectRepository,
	chatRepo repository.ChatRepository,
	hasher security.PasswordHasher,
	ids IDGenerator,
	clock Clock,
) IdentityService {
	return &identityService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		projectRepo: projectRepo,
		chatRepo:    chatRepo,
		hasher:      hasher,
		ids:         ids,
		clock:       clock,
	}
}

func (s *identityService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	logger.EnterMethod("identityService.Register", "username", in.Username)

	if err := validateInput(in); err != nil {
		logger.ExitMethodWithError("identityService.Register", err)
		return nil, err
	}
	username := domain.NormalizeUsername(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is blank", ErrValidation)
	}
	if IsReserved(username) {
		logger.ExitMethodWithError("identityService.Register", ErrUsernameTaken, "username", username)
		return nil, ErrUsernameTaken
	}

	_, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		logger.ExitMethodWithError("identityService.Register", ErrUsernameTaken, "username", username)
		return nil, ErrUsernameTaken
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	stored, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        s.ids.NewID(),
		Username:  username,
		Password:  stored,
		FullName:  in.FullName,
		Age:       in.Age,
		Gender:    in.Gender,
		Role:      domain.UserRoleUser,
		CreatedAt: s.clock.Now(),
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		logger.ExitMethodWithError("identityService.Register", err)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", "username", username)
	logger.ExitMethod("identityService.Register")
	out := user.Sanitized()
	return &out, nil
}

func (s *identityService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	logger.EnterMethod("identityService.Login", "username", username)

	if acct, ok := findReserved(username); ok {
		// A reserved name never falls through to the registered users.
		if password != acct.password {
			logger.Warn("Login failed for reserved account", "username", acct.Username)
			return nil, ErrInvalidCredentials
		}
		logger.ExitMethod("identityService.Login", "role", acct.Role)
		return &domain.Session{Username: acct.Username, Role: acct.Role, FullName: acct.FullName}, nil
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Login failed: unknown user", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !s.hasher.Compare(user.Password, password) {
		logger.Warn("Login failed: wrong password", "username", user.Username)
		return nil, ErrInvalidCredentials
	}

	logger.ExitMethod("identityService.Login", "role", user.Role)
	return &domain.Session{Username: user.Username, Role: user.Role, FullName: user.FullName}, nil
}

// DeleteUser removes a registered user together with every request and
// project they submitted and the chat of those projects. Notifications are
// left in place; the orphan sweep job collects them.
func (s *identityService) DeleteUser(ctx context.Context, username string) (*domain.DeletionSummary, error) {
	logger.EnterMethod("identityService.DeleteUser", "username", username)

	if IsReserved(username) {
		logger.ExitMethodWithError("identityService.DeleteUser", ErrProtectedAccount, "username", username)
		return nil, ErrProtectedAccount
	}
	name := domain.NormalizeUsername(username)

	if _, err := s.userRepo.GetByUsername(ctx, name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := s.userRepo.Delete(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	summary := &domain.DeletionSummary{}

	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	for _, r := range requests {
		if domain.NormalizeUsername(r.RequestedBy) != name {
			continue
		}
		if err := s.requestRepo.Delete(ctx, r.ID); err != nil {
			return nil, fmt.Errorf("failed to delete request %s: %w", r.ID, err)
		}
		summary.DeletedRequests++
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		if domain.NormalizeUsername(p.RequestedBy) != name {
			continue
		}
		if err := s.projectRepo.Delete(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("failed to delete project %s: %w", p.ID, err)
		}
		summary.DeletedProjects++

		n, err := s.chatRepo.DeleteByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete chat of project %s: %w", p.ID, err)
		}
		summary.DeletedChats += n
	}

	logger.Info("User deleted",
		"username", name,
		"requests", summary.DeletedRequests,
		"projects", summary.DeletedProjects,
		"chats", summary.DeletedChats,
	)
	logger.ExitMethod("identityService.DeleteUser")
	return summary, nil
}

func (s *identityService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *identityService) Roster() []ReservedAccount {
	out := make([]ReservedAccount, len(reservedAccounts))
	copy(out, reservedAccounts)
	for i := range out {
		out[i].password = ""
	}
	return out
}
