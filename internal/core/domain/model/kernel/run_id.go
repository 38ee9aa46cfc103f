package kernel

import (
	"fmt"

	"reconciler/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrRunIDIsNotConstructed is returned when validating a zero-value RunID.
var ErrRunIDIsNotConstructed = errs.NewValueIsRequiredError("RunID must be created via NewRunID or RunIDFromString")

// RunID identifies one reconciliation pass. It is attached to every log line
// and report of the pass so that overlapping runs can be told apart.
//
// The zero value is invalid.
type RunID struct {
	id uuid.UUID
}

// NewRunID generates a random (version 4) run identifier.
func NewRunID() RunID {
	return RunID{id: uuid.New()}
}

// RunIDFromString parses a run identifier in any format accepted by uuid.Parse.
func RunIDFromString(s string) (RunID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, fmt.Errorf("invalid run id format: %w", err)
	}

	runID := RunID{id: id}
	if err = runID.Validate(); err != nil {
		return RunID{}, err
	}
	return runID, nil
}

func (r RunID) String() string {
	return r.id.String()
}

func (r RunID) IsEqual(other RunID) bool {
	return r.id == other.id
}

// Validate returns ErrRunIDIsNotConstructed for the nil UUID.
func (r RunID) Validate() error {
	if r.id == uuid.Nil {
		return ErrRunIDIsNotConstructed
	}
	return nil
}
