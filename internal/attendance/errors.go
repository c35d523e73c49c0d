package attendance

import (
	"errors"
	"fmt"

	"github.com/shrimpsizemoose/narvaro/internal/store"
)

var (
	// ErrSessionNotFound means no session exists for the submitted id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionInactive means the session exists but is not accepting marks:
	// deactivated by its owner, not yet started, or past its end time.
	ErrSessionInactive = errors.New("session is not accepting attendance")
	// ErrDuplicate means the student already has a record for this session.
	ErrDuplicate = store.ErrDuplicateRecord
)

// ValidationError reports malformed or missing submission fields.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s", e.Reason)
}
