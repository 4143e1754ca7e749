package loader

import (
	"errors"
	"fmt"
)

// LoadError represents a datapack bug detected at load time. Load
// errors are fatal to the load: no partial ruleset is produced.
type LoadError struct {
	// Code identifies the error category.
	Code LoadErrorCode

	// Message is a human-readable description.
	Message string

	// Pack names the datapack being processed, when known.
	Pack string

	// Feature is the qualified feature name involved, when one is.
	Feature string
}

// LoadErrorCode categorizes load errors.
type LoadErrorCode string

const (
	// ErrCodeBadDocument indicates a document that fails schema or
	// structural validation.
	ErrCodeBadDocument LoadErrorCode = "BAD_DOCUMENT"

	// ErrCodeDuplicatePack indicates two documents with the same name.
	ErrCodeDuplicatePack LoadErrorCode = "DUPLICATE_PACK"

	// ErrCodeMissingDependency indicates a dependency absent from the
	// available set.
	ErrCodeMissingDependency LoadErrorCode = "MISSING_DEPENDENCY"

	// ErrCodeDependencyCycle indicates a cycle through dependencies or
	// load_after edges.
	ErrCodeDependencyCycle LoadErrorCode = "DEPENDENCY_CYCLE"

	// ErrCodeUnqualifiedName indicates a feature name without an
	// "owner." prefix.
	ErrCodeUnqualifiedName LoadErrorCode = "UNQUALIFIED_NAME"

	// ErrCodeDuplicateRegistration indicates a pack registering the
	// same qualified name twice.
	ErrCodeDuplicateRegistration LoadErrorCode = "DUPLICATE_REGISTRATION"

	// ErrCodeBadPattern indicates a pattern string that fails to compile.
	ErrCodeBadPattern LoadErrorCode = "BAD_PATTERN"

	// ErrCodeUnresolvedMemo indicates a score reference that never
	// registered.
	ErrCodeUnresolvedMemo LoadErrorCode = "UNRESOLVED_MEMO"

	// ErrCodeDimensionMismatch indicates two packs declaring boards of
	// different dimension counts.
	ErrCodeDimensionMismatch LoadErrorCode = "DIMENSION_MISMATCH"
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.Pack != "" && e.Feature != "":
		return fmt.Sprintf("%s: %s (pack=%s, feature=%s)", e.Code, e.Message, e.Pack, e.Feature)
	case e.Pack != "":
		return fmt.Sprintf("%s: %s (pack=%s)", e.Code, e.Message, e.Pack)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsLoadError reports whether err is a LoadError with the given code.
// Uses errors.As to handle wrapped errors.
func IsLoadError(err error, code LoadErrorCode) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}
