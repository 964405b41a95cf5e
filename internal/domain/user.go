package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	UserRoleUser        UserRole = "user"
	UserRoleCoordinator UserRole = "coordinator"
	UserRoleEmployee    UserRole = "employee"
)

// User is a registered account. Password is stored as produced by the
// configured security.PasswordHasher; with the default plaintext scheme it is
// the raw password and must not be treated as secure.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"`
	FullName  string    `json:"fullName"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sanitized returns a copy without the password.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Session is what a successful login hands back to the caller.
type Session struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	FullName string   `json:"fullName"`
	Token    string   `json:"token,omitempty"`
}

// DeletionSummary counts the records removed by a user deletion cascade.
type DeletionSummary struct {
	DeletedRequests int `json:"deletedRequests"`
	DeletedProjects int `json:"deletedProjects"`
	DeletedChats    int `json:"deletedChats"`
}

// NormalizeUsername is the canonical form usernames are stored and compared in.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
