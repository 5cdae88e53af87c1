package submissions

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates the submission does not exist.
	ErrNotFound = errors.New("submission not found")
	// ErrDuplicate indicates a submission already exists for the (cpf, vaga) pair.
	ErrDuplicate = errors.New("submission already exists for this cpf and vaga")

	errMalformedPDF = errors.New("malformed pdf document")
)

// ValidationError carries the full violation list of a rejected attempt.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %d violation(s)", len(e.Violations))
}

// DuplicateError reports the prior submission's timestamp for the same pair.
// It unwraps to ErrDuplicate.
type DuplicateError struct {
	DataEnvio time.Time
}

func (e *DuplicateError) Error() string {
	return "submission already exists for this cpf and vaga"
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicate
}

// PartialDeleteError reports an administrative delete that removed only one
// side of the blob/record pair.
type PartialDeleteError struct {
	FileRemoved   bool
	RecordRemoved bool
	Cause         error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("partial delete: file_removed=%t record_removed=%t: %v", e.FileRemoved, e.RecordRemoved, e.Cause)
}

func (e *PartialDeleteError) Unwrap() error {
	return e.Cause
}
