// Package errors defines the typed error hierarchy used across the engine,
// grouped by the error kinds spec.md §7 names: declaration-time semantic
// errors, cross-file resolution errors, structural invariant violations,
// binary-cache errors, and budget/timeout errors. Every type implements
// Unwrap so callers can use errors.Is/errors.As against the Underlying cause.
package errors

import (
	"fmt"
	"time"
)

// Kind tags which of spec.md §7's error categories an error belongs to.
type Kind string

const (
	KindDeclaration Kind = "declaration"
	KindResolution  Kind = "resolution"
	KindStructural  Kind = "structural"
	KindBinary      Kind = "binary"
	KindBudget      Kind = "budget"
)

// DeclarationError covers duplicate names, illegal modifier combinations, and
// illegal placement (e.g. a field inside an interface body).
type DeclarationError struct {
	Code       string
	Message    string
	FileURI    string
	Underlying error
	Timestamp  time.Time
}

func NewDeclarationError(code, message, fileURI string) *DeclarationError {
	return &DeclarationError{Code: code, Message: message, FileURI: fileURI, Timestamp: time.Now()}
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.FileURI)
}

func (e *DeclarationError) Unwrap() error { return e.Underlying }

// ResolutionError covers unresolved types, unresolved methods, and
// incompatible parameter/return types discovered by cross-file validation.
type ResolutionError struct {
	Code       string
	Message    string
	FileURI    string
	Underlying error
	Timestamp  time.Time
}

func NewResolutionError(code, message, fileURI string) *ResolutionError {
	return &ResolutionError{Code: code, Message: message, FileURI: fileURI, Timestamp: time.Now()}
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.FileURI)
}

func (e *ResolutionError) Unwrap() error { return e.Underlying }

// StructuralError covers invariant violations: parent-chain cycles, or
// dangling edges left behind by a removeFile race. These are always logged;
// the write that would have caused them is rejected rather than applied.
type StructuralError struct {
	Message     string
	Recoverable bool
	Underlying  error
	Timestamp   time.Time
}

func NewStructuralError(message string, recoverable bool) *StructuralError {
	return &StructuralError{Message: message, Recoverable: recoverable, Timestamp: time.Now()}
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural invariant violated: %s", e.Message)
}

func (e *StructuralError) Unwrap() error { return e.Underlying }

// BinaryError covers fatal binary-cache load failures: wrong magic,
// unsupported version, checksum mismatch, truncated record. All are fatal for
// the current load; callers may fall back to a cold build.
type BinaryError struct {
	Reason     string
	Underlying error
	Timestamp  time.Time
}

func NewBinaryError(reason string, underlying error) *BinaryError {
	return &BinaryError{Reason: reason, Underlying: underlying, Timestamp: time.Now()}
}

func (e *BinaryError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("binary cache: %s: %v", e.Reason, e.Underlying)
	}
	return fmt.Sprintf("binary cache: %s", e.Reason)
}

func (e *BinaryError) Unwrap() error { return e.Underlying }

// BudgetError covers recoverable budget overruns: artifact-load timeout, too
// many artifacts requested. The engine logs a warning and proceeds with
// whatever data is already available rather than failing the run.
type BudgetError struct {
	Budget    string
	Limit     int
	Requested int
	Timestamp time.Time
}

func NewBudgetError(budget string, limit, requested int) *BudgetError {
	return &BudgetError{Budget: budget, Limit: limit, Requested: requested, Timestamp: time.Now()}
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget %s exceeded: limit=%d requested=%d", e.Budget, e.Limit, e.Requested)
}
