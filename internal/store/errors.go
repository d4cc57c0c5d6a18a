package store

import (
	"strconv"

	"github.com/dotcommander/tasky/internal/models"
)

// RecoverableError is an alias for models.RecoverableError, retained so
// callers can reference store.RecoverableError without the models import.
type RecoverableError = models.RecoverableError

// VersionConflictError carries structured context for optimistic concurrency
// failures.
type VersionConflictError struct {
	Entity  string
	ID      string
	Version int
}

func (e *VersionConflictError) Error() string {
	return "version conflict: record was modified by another process"
}
func (e *VersionConflictError) ErrorCode() string { return "VERSION_CONFLICT" }
func (e *VersionConflictError) Context() map[string]string {
	return map[string]string{
		"entity":  e.Entity,
		"id":      e.ID,
		"version": strconv.Itoa(e.Version),
	}
}
func (e *VersionConflictError) SuggestedAction() string {
	return "re-read the record and retry the operation"
}
func (e *VersionConflictError) Is(target error) bool { return target == ErrVersionConflict }
