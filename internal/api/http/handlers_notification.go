package http

import (
	"fmt"
	"net/http"

	"charity-workflow-backend/internal/service"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func requireUsername(r *http.Request, supplied string) (string, error) {
	name := actor(r, supplied)
	if name == "" {
		return "", fmt.Errorf("%w: username is required", service.ErrValidation)
	}
	return name, nil
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	username, err := requireUsername(r, r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	notes, err := h.noteSvc.ListForUser(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateNotificationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if !isPeer(r) {
		in.ID = ""
	}
	note, err := h.noteSvc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.noteSvc.MarkAsRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type markAllRequest struct {
	Username string `json:"username"`
}

type markAllResponse struct {
	Count int `json:"count"`
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	var in markAllRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	username, err := requireUsername(r, in.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.noteSvc.MarkAllAsRead(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markAllResponse{Count: n})
}
