package domain

import "time"

// Project is the minimal projection of a project needed by the invitation flow.
// Full project CRUD lives behind its own service; membership is all this core
// mutates.
type Project struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// ProjectMember links a user to a project team.
type ProjectMember struct {
	ProjectID string
	UserID    string
	JoinedAt  time.Time
}
