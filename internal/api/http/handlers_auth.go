package http

import (
	"net/http"

	"charity-workflow-backend/internal/security"
	"charity-workflow-backend/internal/service"

	"github.com/gorilla/mux"
)

type AuthHandler struct {
	identitySvc service.IdentityService
	tokens      security.TokenManager
}

func NewAuthHandler(identitySvc service.IdentityService, tokens security.TokenManager) *AuthHandler {
	return &AuthHandler{identitySvc: identitySvc, tokens: tokens}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.identitySvc.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.identitySvc.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.tokens.GenerateSessionToken(sess.Username, string(sess.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess.Token = token
	writeJSON(w, http.StatusOK, sess)
}

type UserHandler struct {
	identitySvc service.IdentityService
}

func NewUserHandler(identitySvc service.IdentityService) *UserHandler {
	return &UserHandler{identitySvc: identitySvc}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.identitySvc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Roster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.identitySvc.Roster())
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	summary, err := h.identitySvc.DeleteUser(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
