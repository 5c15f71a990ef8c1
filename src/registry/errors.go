package registry

import (
	"errors"
	"fmt"

	"github.com/sbtc-bridge/registry/src/store"
	"github.com/sbtc-bridge/registry/src/utils/model"
)

var (
	// Re-exported store errors, callers only need this package
	ErrNotFound  = store.ErrNotFound
	ErrConflict  = store.ErrConflict
	ErrTransient = store.ErrTransient

	// Write path attempted a change outside of its ownership
	ErrForbidden = errors.New("update path does not own the requested change")

	// Malformed token, or token produced for a different index/filter
	ErrInvalidCursor = errors.New("invalid pagination token")

	// Marker targets for errors.Is on the typed errors below
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrProjection        = errors.New("projection failed")
	ErrValidation        = errors.New("invalid request")
)

// Status model rejection, carries both sides for diagnostics.
type InvalidTransitionError struct {
	Current   model.DepositStatus
	Requested model.DepositStatus
}

func (self *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", self.Current, self.Requested)
}

func (self *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// A required indexable attribute is missing or malformed.
type ProjectionError struct {
	Reason string
}

func (self *ProjectionError) Error() string {
	return "projection failed: " + self.Reason
}

func (self *ProjectionError) Is(target error) bool {
	return target == ErrProjection
}

type ValidationError struct {
	Field  string
	Reason string
}

func (self *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", self.Field, self.Reason)
}

func (self *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
