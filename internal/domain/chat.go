package domain

import "time"

type SenderRole string

const (
	SenderRoleUser     SenderRole = "user"
	SenderRoleEmployee SenderRole = "employee"
)

type ChatMessage struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"projectId"`
	Sender     string     `json:"sender"`
	SenderRole SenderRole `json:"senderRole"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}
