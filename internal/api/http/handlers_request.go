package http

import (
	"fmt"
	"net/http"

	"charity-workflow-backend/internal/service"

	"github.com/gorilla/mux"
)

// PolicyOptions selects which panel policies the API enforces before
// calling the lifecycle engine.
type PolicyOptions struct {
	EnforceCapacity  bool
	OneActivePerUser bool
}

type RequestHandler struct {
	requestSvc   service.RequestService
	lifecycleSvc service.LifecycleService
	policySvc    service.PolicyService
	opts         PolicyOptions
}

func NewRequestHandler(requestSvc service.RequestService, lifecycleSvc service.LifecycleService, policySvc service.PolicyService, opts PolicyOptions) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc, lifecycleSvc: lifecycleSvc, policySvc: policySvc, opts: opts}
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requestSvc.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.requestSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRequestInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.RequestedBy = actor(r, in.RequestedBy)
	if !isPeer(r) {
		// Client-chosen ids are reserved for mirroring peers.
		in.ID = ""
	}

	if h.opts.OneActivePerUser && !isPeer(r) && in.RequestedBy != "" {
		ok, err := h.policySvc.CanSubmit(r.Context(), in.RequestedBy)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ok {
			writeError(w, r, fmt.Errorf("%s already has a pending request or an active project: %w", in.RequestedBy, service.ErrConflict))
			return
		}
	}

	req, err := h.requestSvc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type approveRequest struct {
	EmployeeID string `json:"employeeId"`
	ProjectID  string `json:"projectId,omitempty"`
}

func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var in approveRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if h.opts.EnforceCapacity && !isPeer(r) && in.EmployeeID != "" {
		ok, err := h.policySvc.CanAssign(r.Context(), in.EmployeeID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !ok {
			writeError(w, r, fmt.Errorf("%s has reached the active project limit: %w", in.EmployeeID, service.ErrConflict))
			return
		}
	}

	var opts []service.ApproveOption
	if isPeer(r) && in.ProjectID != "" {
		opts = append(opts, service.WithProjectID(in.ProjectID))
	}
	project, err := h.lifecycleSvc.Approve(r.Context(), mux.Vars(r)["id"], in.EmployeeID, opts...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProjectView(project))
}

func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.requestSvc.Reject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
