package services

import "errors"

// Common service errors
var (
	// ErrInvalidRecordState signals a monthly record whose stats blob failed
	// shape validation. Aggregation must not proceed on such a record.
	ErrInvalidRecordState = errors.New("monthly record state is invalid")

	// ErrTeamNotFound signals a lookup for a team that does not exist
	ErrTeamNotFound = errors.New("team not found")
)
