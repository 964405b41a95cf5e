package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "charity-workflow-backend/internal/api/http"
	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/repository/kvstore"
	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"
	"charity-workflow-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

type apiClient struct {
	t      *testing.T
	srv    *httptest.Server
	tokens security.TokenManager
}

func newAPI(t *testing.T, opts httpapi.Options) *apiClient {
	t.Helper()
	store := kvstore.NewStore(storage.NewMemoryStore())
	ids := service.UUIDGenerator()
	clock := service.SystemClock()
	notes := service.NewNotificationService(store.NotificationRepository, ids, clock)
	svc := httpapi.Services{
		Identity:      service.NewIdentityService(store.UserRepository, store.RequestRepository, store.ProjectRepository, store.ChatRepository, security.PlaintextHasher{}, ids, clock),
		Requests:      service.NewRequestService(store.RequestRepository, ids, clock),
		Lifecycle:     service.NewLifecycleService(store.ProjectRepository, store.RequestRepository, notes, ids, clock, service.LifecycleOptions{}),
		Notifications: notes,
		Chat:          service.NewChatService(store.ChatRepository, ids, clock),
		Policy:        service.NewPolicyService(store.ProjectRepository, store.RequestRepository, 0),
		Data:          service.NewDataService(store.UserRepository, store.RequestRepository, store.ProjectRepository, store.ChatRepository, store.NotificationRepository),
	}
	if opts.Tokens == nil {
		opts.Tokens = security.NewTokenManager(testSecret, time.Hour)
	}
	srv := httptest.NewServer(httpapi.NewRouter(svc, opts))
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv, tokens: opts.Tokens}
}

// call sends body as JSON and decodes the reply into out when non-nil.
func (c *apiClient) call(method, path string, headers map[string]string, body, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+"/api/v1"+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *apiClient) login(username, password string) map[string]string {
	c.t.Helper()
	var sess domain.Session
	status := c.call(http.MethodPost, "/auth/login", nil, map[string]string{"username": username, "password": password}, &sess)
	require.Equal(c.t, http.StatusOK, status)
	require.NotEmpty(c.t, sess.Token)
	return map[string]string{"Authorization": "Bearer " + sess.Token}
}

type projectReply struct {
	domain.Project
	Progress int `json:"progress"`
}

func TestAPI_ProjectFlow(t *testing.T) {
	api := newAPI(t, httpapi.Options{})

	status := api.call(http.MethodPost, "/auth/register", nil, service.RegisterInput{FullName: "Maria Lopez", Age: 34, Gender: "female", Username: "Maria", Password: "pw"}, nil)
	require.Equal(t, http.StatusCreated, status)

	maria := api.login("maria", "pw")
	admin := api.login("admin", "1234")
	andrea := api.login("andrea", "1234")

	var req domain.Request
	status = api.call(http.MethodPost, "/requests", maria, map[string]string{"title": "Food Drive", "category": "Alimentación", "requestedBy": "someone-else"}, &req)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "maria", req.RequestedBy, "the token decides who is asking")

	var project projectReply
	status = api.call(http.MethodPost, "/requests/"+req.ID+"/approve", admin, map[string]string{"employeeId": "andrea"}, &project)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "andrea", project.AssignedEmployee)
	require.Len(t, project.Phases, 3)
	assert.Equal(t, 0, project.Progress)

	var pending []domain.Request
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/requests", admin, nil, &pending))
	assert.Empty(t, pending)

	phase := project.Phases[0].ID
	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/projects/"+project.ID+"/phases/"+phase+"/files", maria, map[string]string{"fileName": "budget.pdf"}, &project))
	require.Len(t, project.Phases[0].Files, 1)
	assert.Equal(t, "maria", project.Phases[0].Files[0].UploadedBy)

	var notes []domain.Notification
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/notifications", andrea, nil, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationFileUploaded, notes[0].Type)

	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/projects/"+project.ID+"/phases/"+phase+"/approve", andrea, nil, &project))
	assert.Equal(t, 33, project.Progress)

	var msg domain.ChatMessage
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/projects/"+project.ID+"/chat", andrea, map[string]string{"senderRole": "employee", "message": "Revisado"}, &msg))
	assert.Equal(t, "andrea", msg.Sender)
	var chat []domain.ChatMessage
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/projects/"+project.ID+"/chat", maria, nil, &chat))
	require.Len(t, chat, 1)
	assert.Equal(t, domain.SenderRoleEmployee, chat[0].SenderRole)

	var count struct {
		Count int `json:"count"`
	}
	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/notifications/read-all", maria, nil, &count))
	assert.Equal(t, 1, count.Count)

	var active []projectReply
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/projects?requestedBy=maria", maria, nil, &active))
	assert.Len(t, active, 1)

	require.Equal(t, http.StatusOK, api.call(http.MethodPost, "/projects/"+project.ID+"/complete", andrea, nil, &project))
	assert.Equal(t, domain.ProjectStatusCompleted, project.Status)
	assert.Equal(t, "andrea", project.CompletedBy)

	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/projects?assignedTo=andrea", andrea, nil, &active))
	assert.Empty(t, active)

	var load map[string]int
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/employees/workload", admin, nil, &load))
	assert.Equal(t, map[string]int{"andrea": 0, "luis": 0, "sergio": 0}, load)

	var snap domain.DataSnapshot
	require.Equal(t, http.StatusOK, api.call(http.MethodGet, "/data/all", admin, nil, &snap))
	require.Len(t, snap.Users, 1)
	assert.Empty(t, snap.Users[0].Password)
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.Chat, 1)

	var summary domain.DeletionSummary
	require.Equal(t, http.StatusOK, api.call(http.MethodDelete, "/users/maria", admin, nil, &summary))
	assert.Equal(t, domain.DeletionSummary{DeletedProjects: 1, DeletedChats: 1}, summary)
}

func TestAPI_ErrorMapping(t *testing.T) {
	api := newAPI(t, httpapi.Options{})
	reg := service.RegisterInput{FullName: "Maria", Age: 30, Gender: "f", Username: "maria", Password: "pw"}

	assert.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/auth/register", nil, reg, nil))
	assert.Equal(t, http.StatusConflict, api.call(http.MethodPost, "/auth/register", nil, reg, nil))
	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodPost, "/auth/login", nil, map[string]string{"username": "maria", "password": "PW"}, nil))
	assert.Equal(t, http.StatusNotFound, api.call(http.MethodPost, "/requests/nope/approve", nil, map[string]string{"employeeId": "andrea"}, nil))
	assert.Equal(t, http.StatusNotFound, api.call(http.MethodGet, "/projects/nope", nil, nil, nil))
	assert.Equal(t, http.StatusBadRequest, api.call(http.MethodPost, "/requests", nil, map[string]string{"requestedBy": "maria"}, nil))
	assert.Equal(t, http.StatusBadRequest, api.call(http.MethodGet, "/notifications", nil, nil, nil))
	assert.Equal(t, http.StatusConflict, api.call(http.MethodDelete, "/users/andrea", nil, nil, nil))
	assert.Equal(t, http.StatusNoContent, api.call(http.MethodDelete, "/requests/never-existed", nil, nil, nil))
	assert.Equal(t, http.StatusNoContent, api.call(http.MethodPost, "/notifications/absent/read", nil, nil, nil))

	req, err := http.NewRequest(http.MethodPost, api.srv.URL+"/api/v1/auth/login", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodGet, "/projects", map[string]string{"Authorization": "Bearer garbage"}, nil, nil))
}

func TestAPI_Policies(t *testing.T) {
	api := newAPI(t, httpapi.Options{Policy: httpapi.PolicyOptions{EnforceCapacity: true, OneActivePerUser: true}})

	submit := func(user string) (domain.Request, int) {
		var req domain.Request
		status := api.call(http.MethodPost, "/requests", nil, map[string]string{"title": "Drive", "requestedBy": user}, &req)
		return req, status
	}

	first, status := submit("maria")
	require.Equal(t, http.StatusCreated, status)
	_, status = submit("maria")
	assert.Equal(t, http.StatusConflict, status, "one outstanding request per user")

	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/requests/"+first.ID+"/approve", nil, map[string]string{"employeeId": "andrea"}, nil))
	_, status = submit("maria")
	assert.Equal(t, http.StatusConflict, status, "active project blocks new requests")

	for _, user := range []string{"pedro", "ana"} {
		req, status := submit(user)
		require.Equal(t, http.StatusCreated, status)
		require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/requests/"+req.ID+"/approve", nil, map[string]string{"employeeId": "andrea"}, nil))
	}

	fourth, status := submit("luz")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.StatusConflict, api.call(http.MethodPost, "/requests/"+fourth.ID+"/approve", nil, map[string]string{"employeeId": "andrea"}, nil))
	assert.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/requests/"+fourth.ID+"/approve", nil, map[string]string{"employeeId": "sergio"}, nil))
}

func TestAPI_RequireAuth(t *testing.T) {
	api := newAPI(t, httpapi.Options{RequireAuth: true, PeerAPIKey: "peer-key"})
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/auth/register", nil, service.RegisterInput{FullName: "Maria", Age: 30, Gender: "f", Username: "maria", Password: "pw"}, nil))

	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/health", nil, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodGet, "/projects", nil, nil, nil))

	maria := api.login("maria", "pw")
	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/projects", maria, nil, nil))
	assert.Equal(t, http.StatusForbidden, api.call(http.MethodGet, "/data/all", maria, nil, nil))

	admin := api.login("admin", "1234")
	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/data/all", admin, nil, nil))

	peer := map[string]string{"X-API-Key": "peer-key"}
	assert.Equal(t, http.StatusOK, api.call(http.MethodGet, "/data/all", peer, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.call(http.MethodGet, "/data/all", map[string]string{"X-API-Key": "wrong"}, nil, nil))
}

func TestAPI_PeerSuppliedIDs(t *testing.T) {
	api := newAPI(t, httpapi.Options{PeerAPIKey: "peer-key"})
	peer := map[string]string{"X-API-Key": "peer-key"}

	var req domain.Request
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/requests", peer, map[string]string{"id": "r-1", "title": "Drive", "requestedBy": "maria"}, &req))
	assert.Equal(t, "r-1", req.ID)

	var project projectReply
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/requests/r-1/approve", peer, map[string]string{"employeeId": "andrea", "projectId": "p-1"}, &project))
	assert.Equal(t, "p-1", project.ID)
	assert.Equal(t, "p-1-phase-1", project.Phases[0].ID)

	var anon domain.Request
	require.Equal(t, http.StatusCreated, api.call(http.MethodPost, "/requests", nil, map[string]string{"id": "r-2", "title": "Drive", "requestedBy": "pedro"}, &anon))
	assert.NotEqual(t, "r-2", anon.ID)
}
