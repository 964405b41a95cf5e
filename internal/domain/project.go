package domain

import "time"

type ProjectStatus string

const (
	ProjectStatusApproved  ProjectStatus = "approved"
	ProjectStatusCompleted ProjectStatus = "completed"
)

type PhaseStatus string

const (
	PhaseStatusPending  PhaseStatus = "pending"
	PhaseStatusApproved PhaseStatus = "approved"
	PhaseStatusReturned PhaseStatus = "returned"
)

// PhaseCount is the fixed number of phases every project carries.
const PhaseCount = 3

type ProjectFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       string    `json:"size"`
}

type Phase struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      PhaseStatus   `json:"status"`
	Files       []ProjectFile `json:"files"`
}

type Project struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Category         string        `json:"category"`
	RequestedBy      string        `json:"requestedBy"`
	Status           ProjectStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	AssignedEmployee string        `json:"assignedEmployee,omitempty"`
	Phases           []Phase       `json:"phases"`
	CompletedBy      string        `json:"completedBy,omitempty"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
}

// PhaseTemplate names one of the fixed stages a project moves through.
type PhaseTemplate struct {
	Name        string
	Description string
}

// PhaseTemplates is the fixed, ordered phase triplet.
var PhaseTemplates = [PhaseCount]PhaseTemplate{
	{Name: "Planning", Description: "Planning documents, budgets and initial organisation of the project"},
	{Name: "Execution", Description: "Implementation material, progress photos and evidence of activities"},
	{Name: "Closure", Description: "Final results, impact reports and closing documentation"},
}

// IsActive reports whether the project still counts against its requester
// and its assigned employee.
func (p *Project) IsActive() bool {
	return p.Status != ProjectStatusCompleted
}

// Phase returns a pointer into p.Phases for the given id.
func (p *Project) Phase(phaseID string) (*Phase, bool) {
	for i := range p.Phases {
		if p.Phases[i].ID == phaseID {
			return &p.Phases[i], true
		}
	}
	return nil, false
}

// ApprovedPhases counts phases in the approved state.
func (p *Project) ApprovedPhases() int {
	n := 0
	for _, ph := range p.Phases {
		if ph.Status == PhaseStatusApproved {
			n++
		}
	}
	return n
}

// Progress is the share of approved phases, 0..100.
func (p *Project) Progress() int {
	if len(p.Phases) == 0 {
		return 0
	}
	return p.ApprovedPhases() * 100 / len(p.Phases)
}
