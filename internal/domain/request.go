package domain

import "time"

// Request is a user's pending ask to start a charity project. It only exists
// until a coordinator approves or rejects it.
type Request struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	RequestedBy string    `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
