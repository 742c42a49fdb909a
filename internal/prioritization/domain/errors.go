package prioritization

import "errors"

var (
	// ErrEmptySubmission is returned when a score submission carries no scores.
	ErrEmptySubmission = errors.New("prioritization: at least one score required")
	// ErrProjectNotFound is returned when the referenced project does not exist.
	ErrProjectNotFound = errors.New("prioritization: project not found")
	// ErrCriterionNotFound is returned when a referenced criterion does not exist.
	ErrCriterionNotFound = errors.New("prioritization: criterion not found")
	// ErrCriterionInactive is returned when a score targets a deactivated criterion.
	ErrCriterionInactive = errors.New("prioritization: criterion not active")
	// ErrInvalidScore is returned when a raw score is outside the criteria scale.
	ErrInvalidScore = errors.New("prioritization: score out of range")
	// ErrCompositeNotFound is returned when a project has no composite score.
	ErrCompositeNotFound = errors.New("prioritization: composite score not found")
)
