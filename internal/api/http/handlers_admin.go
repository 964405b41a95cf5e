package http

import (
	"net/http"
	"time"

	"charity-workflow-backend/internal/service"
)

type AdminHandler struct {
	policySvc service.PolicyService
	dataSvc   service.DataService
}

func NewAdminHandler(policySvc service.PolicyService, dataSvc service.DataService) *AdminHandler {
	return &AdminHandler{policySvc: policySvc, dataSvc: dataSvc}
}

func (h *AdminHandler) Workload(w http.ResponseWriter, r *http.Request) {
	load, err := h.policySvc.EmployeeWorkload(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, load)
}

func (h *AdminHandler) DumpAll(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dataSvc.DumpAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}
