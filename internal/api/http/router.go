package http

import (
	"net/http"
	"time"

	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services are the backends the API serves.
type Services struct {
	Identity      service.IdentityService
	Requests      service.RequestService
	Lifecycle     service.LifecycleService
	Notifications service.NotificationService
	Chat          service.ChatService
	Policy        service.PolicyService
	Data          service.DataService
}

// Options configures authentication and the panel policies.
type Options struct {
	Tokens      security.TokenManager
	RequireAuth bool
	PeerAPIKey  string
	Policy      PolicyOptions
}

// NewRouter registers every /api/v1 route.
func NewRouter(svc Services, opts Options) *mux.Router {
	auth := &authenticator{tokens: opts.Tokens, peerAPIKey: opts.PeerAPIKey, requireAuth: opts.RequireAuth}

	authH := NewAuthHandler(svc.Identity, opts.Tokens)
	userH := NewUserHandler(svc.Identity)
	requestH := NewRequestHandler(svc.Requests, svc.Lifecycle, svc.Policy, opts.Policy)
	projectH := NewProjectHandler(svc.Lifecycle, svc.Chat)
	noteH := NewNotificationHandler(svc.Notifications)
	adminH := NewAdminHandler(svc.Policy, svc.Data)

	router := mux.NewRouter()
	router.Use(recoverMiddleware, logMiddleware)
	api := router.PathPrefix("/api/v1").Subrouter()

	route := func(path string, level SecurityLevel, h http.HandlerFunc, methods ...string) {
		api.HandleFunc(path, auth.wrap(level, h)).Methods(methods...)
	}

	route("/health", SecurityPublic, Health, http.MethodGet)
	route("/auth/register", SecurityPublic, authH.Register, http.MethodPost)
	route("/auth/login", SecurityPublic, authH.Login, http.MethodPost)

	route("/users", SecurityCoordinator, userH.List, http.MethodGet)
	route("/users/roster", SecurityUser, userH.Roster, http.MethodGet)
	route("/users/{username}", SecurityCoordinator, userH.Delete, http.MethodDelete)

	route("/requests", SecurityUser, requestH.List, http.MethodGet)
	route("/requests", SecurityUser, requestH.Create, http.MethodPost)
	route("/requests/{id}", SecurityUser, requestH.Get, http.MethodGet)
	route("/requests/{id}", SecurityCoordinator, requestH.Reject, http.MethodDelete)
	route("/requests/{id}/approve", SecurityCoordinator, requestH.Approve, http.MethodPost)

	route("/projects", SecurityUser, projectH.List, http.MethodGet)
	route("/projects/{id}", SecurityUser, projectH.Get, http.MethodGet)
	route("/projects/{id}/phases/{phaseId}/files", SecurityUser, projectH.UploadFile, http.MethodPost)
	route("/projects/{id}/phases/{phaseId}/approve", SecurityUser, projectH.ApprovePhase, http.MethodPost)
	route("/projects/{id}/phases/{phaseId}/return", SecurityUser, projectH.ReturnPhase, http.MethodPost)
	route("/projects/{id}/complete", SecurityUser, projectH.Complete, http.MethodPost)
	route("/projects/{id}/chat", SecurityUser, projectH.ListChat, http.MethodGet)
	route("/projects/{id}/chat", SecurityUser, projectH.SendChat, http.MethodPost)

	route("/notifications", SecurityUser, noteH.List, http.MethodGet)
	route("/notifications", SecurityUser, noteH.Create, http.MethodPost)
	route("/notifications/read-all", SecurityUser, noteH.MarkAllAsRead, http.MethodPost)
	route("/notifications/{id}/read", SecurityUser, noteH.MarkAsRead, http.MethodPost)

	route("/employees/workload", SecurityUser, adminH.Workload, http.MethodGet)
	route("/data/all", SecurityCoordinator, adminH.DumpAll, http.MethodGet)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Handler panicked", "method", r.Method, "path", r.URL.Path, "panic", p)
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
