package types

import "errors"

// Domain errors for type validation
var (
	// ErrInvalidArgument marks caller misuse such as a limit below one or a
	// threshold outside 0-100. Callers should check it with errors.Is.
	ErrInvalidArgument = errors.New("invalid argument")

	// Record errors
	ErrEmptyDisplayName       = errors.New("display name cannot be empty")
	ErrInvalidSimilarityScore = errors.New("similarity score must be between 0 and 100")
	ErrUnknownSource          = errors.New("unknown source")
)
