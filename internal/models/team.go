package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a group of tracked repositories whose contribution
// statistics are aggregated together
type Team struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewTeam creates a new Team with a generated UUID
func NewTeam(name, slug string) *Team {
	now := time.Now()
	return &Team{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Team) Validate() error {
	if t.Name == "" {
		return ErrTeamNameRequired
	}
	return nil
}

// Common errors
var (
	ErrTeamNameRequired = &ValidationError{Field: "name", Message: "Team name is required"}
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
