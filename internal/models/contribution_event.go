package models

import (
	"time"
)

// EventKind identifies the type of a contribution event
type EventKind string

const (
	EventKindCommit      EventKind = "commit"
	EventKindPullRequest EventKind = "pull_request"
)

// ContributionEvent is the canonical shape a raw commit or pull request is
// normalized into before aggregation. It is transient and never persisted
// on its own.
type ContributionEvent struct {
	Kind             EventKind `json:"kind"`
	RepositoryID     string    `json:"repository_id"`
	RepositoryName   string    `json:"repository_name"`
	ContributorID    string    `json:"contributor_id"`
	ContributorLogin string    `json:"contributor_login"`
	LinesAdded       int       `json:"lines_added"`
	LinesRemoved     int       `json:"lines_removed"`
	OccurredAt       time.Time `json:"occurred_at"`
	Merged           bool      `json:"merged"`
}

// IsCommit checks if the event is a commit
func (e *ContributionEvent) IsCommit() bool {
	return e.Kind == EventKindCommit
}

// IsPullRequest checks if the event is a pull request
func (e *ContributionEvent) IsPullRequest() bool {
	return e.Kind == EventKindPullRequest
}
