package domain

import "time"

type NotificationType string

const (
	NotificationFileUploaded  NotificationType = "file_uploaded"
	NotificationPhaseApproved NotificationType = "phase_approved"
	NotificationPhaseReturned NotificationType = "phase_returned"
)

type Notification struct {
	ID                string            `json:"id"`
	RecipientUsername string            `json:"recipientUsername"`
	Type              NotificationType  `json:"type"`
	ProjectID         string            `json:"projectId"`
	ProjectTitle      string            `json:"projectTitle"`
	PhaseName         string            `json:"phaseName"`
	Message           string            `json:"message"`
	Read              bool              `json:"read"`
	CreatedAt         time.Time         `json:"createdAt"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// DataSnapshot is the full dump served to the admin data viewer.
type DataSnapshot struct {
	Users         []User         `json:"users"`
	Requests      []Request      `json:"requests"`
	Projects      []Project      `json:"projects"`
	Chat          []ChatMessage  `json:"chat"`
	Notifications []Notification `json:"notifications"`
}
