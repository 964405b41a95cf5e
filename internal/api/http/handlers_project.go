package http

import (
	"context"
	"net/http"
	"strconv"

	"charity-workflow-backend/internal/domain"
	"charity-workflow-backend/internal/service"

	"github.com/gorilla/mux"
)

// projectView is a project plus its derived progress percentage.
type projectView struct {
	domain.Project
	Progress int `json:"progress"`
}

func newProjectView(p *domain.Project) projectView {
	return projectView{Project: *p, Progress: p.Progress()}
}

func newProjectViews(projects []domain.Project) []projectView {
	out := make([]projectView, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectView(&projects[i]))
	}
	return out
}

type ProjectHandler struct {
	lifecycleSvc service.LifecycleService
	chatSvc      service.ChatService
}

func NewProjectHandler(lifecycleSvc service.LifecycleService, chatSvc service.ChatService) *ProjectHandler {
	return &ProjectHandler{lifecycleSvc: lifecycleSvc, chatSvc: chatSvc}
}

// List serves every project, or the active projects of one requester
// (?requestedBy=) or one employee (?assignedTo=).
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		projects []domain.Project
		err      error
	)
	switch {
	case q.Get("requestedBy") != "":
		projects, err = h.lifecycleSvc.ListActiveForUser(r.Context(), q.Get("requestedBy"))
	case q.Get("assignedTo") != "":
		projects, err = h.lifecycleSvc.ListAssignedToEmployee(r.Context(), q.Get("assignedTo"))
	default:
		projects, err = h.lifecycleSvc.ListProjects(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if active, _ := strconv.ParseBool(q.Get("active")); active {
		kept := projects[:0]
		for _, p := range projects {
			if p.IsActive() {
				kept = append(kept, p)
			}
		}
		projects = kept
	}
	writeJSON(w, http.StatusOK, newProjectViews(projects))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.lifecycleSvc.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectView(p))
}

type uploadRequest struct {
	FileName   string `json:"fileName"`
	UploadedBy string `json:"uploadedBy"`
}

func (h *ProjectHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	var in uploadRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	p, err := h.lifecycleSvc.UploadFile(r.Context(), vars["id"], vars["phaseId"], in.FileName, actor(r, in.UploadedBy))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectView(p))
}

type phaseActionRequest struct {
	Actor string `json:"actor"`
}

func (h *ProjectHandler) ApprovePhase(w http.ResponseWriter, r *http.Request) {
	h.phaseAction(w, r, h.lifecycleSvc.ApprovePhase)
}

func (h *ProjectHandler) ReturnPhase(w http.ResponseWriter, r *http.Request) {
	h.phaseAction(w, r, h.lifecycleSvc.ReturnPhase)
}

func (h *ProjectHandler) phaseAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, projectID, phaseID, actor string) (*domain.Project, error)) {
	var in phaseActionRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	p, err := op(r.Context(), vars["id"], vars["phaseId"], actor(r, in.Actor))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectView(p))
}

type completeRequest struct {
	CompletedBy string `json:"completedBy"`
}

func (h *ProjectHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var in completeRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.lifecycleSvc.Complete(r.Context(), mux.Vars(r)["id"], actor(r, in.CompletedBy))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectView(p))
}

func (h *ProjectHandler) ListChat(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chatSvc.ListForProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ProjectHandler) SendChat(w http.ResponseWriter, r *http.Request) {
	var in service.SendMessageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ProjectID = mux.Vars(r)["id"]
	in.Sender = actor(r, in.Sender)
	if !isPeer(r) {
		in.ID = ""
	}
	msg, err := h.chatSvc.Send(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
