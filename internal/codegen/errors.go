package codegen

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOperation matches DuplicateOperationError.
	ErrDuplicateOperation = errors.New("duplicate operationId")
	// ErrMissingTypeRef matches MissingTypeRefError.
	ErrMissingTypeRef = errors.New("missing type reference")
	// ErrUnmatchedServer matches UnmatchedServerError.
	ErrUnmatchedServer = errors.New("unmatched server label")
	// ErrPattern matches PatternError.
	ErrPattern = errors.New("invalid placeholder pattern")
	// ErrOption matches OptionError.
	ErrOption = errors.New("invalid codegen option")
)

// DuplicateOperationError reports two operations sharing an operationId.
type DuplicateOperationError struct {
	OperationID string
	First       string // "method path" of the first occurrence
	Second      string
}

func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("operationId %q is used by both %q and %q", e.OperationID, e.First, e.Second)
}

func (e *DuplicateOperationError) Is(target error) bool { return target == ErrDuplicateOperation }

// MissingTypeRefError reports an operation with no generated type fragments.
type MissingTypeRefError struct {
	OperationID string
	Operation   string
}

func (e *MissingTypeRefError) Error() string {
	return fmt.Sprintf("no generated types for operation %q (%s)", e.OperationID, e.Operation)
}

func (e *MissingTypeRefError) Is(target error) bool { return target == ErrMissingTypeRef }

// UnmatchedServerError reports a server whose description is not one of the
// recognized environment labels.
type UnmatchedServerError struct {
	URL         string
	Description string
}

func (e *UnmatchedServerError) Error() string {
	return fmt.Sprintf("server %q has unrecognized description %q (want one of %v)", e.URL, e.Description, ServerLabels)
}

func (e *UnmatchedServerError) Is(target error) bool { return target == ErrUnmatchedServer }

// PatternError reports a replacement key that is not a valid regular expression.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("placeholder pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

func (e *PatternError) Is(target error) bool { return target == ErrPattern }

// OptionError reports an unknown policy value.
type OptionError struct {
	Option  string
	Value   string
	Allowed []string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("unsupported %s %q (allowed: %v)", e.Option, e.Value, e.Allowed)
}

func (e *OptionError) Is(target error) bool { return target == ErrOption }
