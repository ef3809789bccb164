package mentor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means the course or its progress context does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMentorLocked means the learner has not completed enough chapters yet.
	ErrMentorLocked = errors.New("mentor not yet available")

	// ErrGenerationFailed means the generation collaborator errored or returned
	// zero extras against a non-empty weak-concept set. Nothing is stored on
	// this path.
	ErrGenerationFailed = errors.New("gap question generation failed")

	// ErrQuizExists is the store-level conflict on the gap-quiz uniqueness
	// constraint. The composer recovers from it internally; it never reaches
	// handlers.
	ErrQuizExists = errors.New("gap quiz already exists for this key")

	// ErrSessionProtocol is an out-of-order session call. The session state is
	// left unchanged.
	ErrSessionProtocol = errors.New("invalid session operation for current state")

	// ErrSessionNotFound means the session id is unknown or already discarded.
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError reports malformed analyzer input. No partial analysis is
// returned alongside it.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid progress input: %s", strings.Join(e.Errors, "; "))
}
