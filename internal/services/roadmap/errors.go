package roadmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError indicates a request that was rejected before any generation
// or persistence was attempted
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NotFoundError indicates a referenced entity does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// GenerationError indicates the AI generation path failed. It is recovered
// internally by falling back to the deterministic generator and is never
// surfaced to callers of the engine.
type GenerationError struct {
	Stage string // "request", "response", "parse"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("roadmap generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PersistenceError indicates a write to the document store failed
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ConversionError reports the items whose task creation failed mid-batch.
// Tasks created before the failures are not rolled back; their source items
// stay linked.
type ConversionError struct {
	FailedItemIDs []uuid.UUID
	Err           error
}

func (e *ConversionError) Error() string {
	ids := make([]string, 0, len(e.FailedItemIDs))
	for _, id := range e.FailedItemIDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("task conversion failed for items [%s]: %v", strings.Join(ids, ", "), e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
