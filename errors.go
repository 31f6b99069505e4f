package envmanager

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Use errors.Is to match them through FileError and VariableError.
var (
	// ErrNothingToSave is returned by Save when no valid variable is left to write.
	ErrNothingToSave = errors.New("envmanager: the data is not available for saving to a file")

	// ErrUnableToWrite is returned by Save when the environment file cannot be written.
	ErrUnableToWrite = errors.New("envmanager: unable to write the environment file")

	// ErrUnableToRead is returned when an existing environment file cannot be parsed.
	ErrUnableToRead = errors.New("envmanager: unable to read the environment file")

	// ErrInvalidKeyFormat is returned when a variable key does not match ^[A-Z][A-Z0-9_]+$.
	ErrInvalidKeyFormat = errors.New("envmanager: key format is not supported for environment variable")

	// ErrAlreadyExists reports a variable key that is already present.
	// It is never raised by Set; Validate uses it for keys that collide after trimming.
	ErrAlreadyExists = errors.New("envmanager: variable already exists")
)

// FileError describes a failed operation on an environment file.
type FileError struct {
	Op    string // "read", "save" or "write"
	Path  string // File the operation targeted
	Err   error  // One of the sentinel errors above
	Cause error  // Underlying error, may be nil
}

// Error formats the error as "<sentinel>: <op> <path>[: <cause>]".
func (e *FileError) Error() string {
	msg := fmt.Sprintf("%v: %s %s", e.Err, e.Op, e.Path)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is / errors.As.
func (e *FileError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// VariableError describes a rejected variable.
type VariableError struct {
	Key string
	Err error
}

func (e *VariableError) Error() string {
	return "envmanager: " + e.message()
}

func (e *VariableError) message() string {
	switch {
	case errors.Is(e.Err, ErrInvalidKeyFormat):
		return fmt.Sprintf("format key [%s] is not supported for environment variable", e.Key)
	case errors.Is(e.Err, ErrAlreadyExists):
		return fmt.Sprintf("variable with key [%s] already exists", e.Key)
	default:
		return fmt.Sprintf("variable [%s]: %v", e.Key, e.Err)
	}
}

func (e *VariableError) Unwrap() error {
	return e.Err
}

// Error codes used in FieldError.Code.
const (
	ErrCodeInvalidKeyFormat = "invalid_key_format"
	ErrCodeAlreadyExists    = "already_exists"
)

// ValidationError aggregates variable-level problems found by Validate.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "env validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("env validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "env validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.Name, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// FieldError represents a single variable that would not survive Save.
type FieldError struct {
	Name    string // Variable name as staged in memory (untrimmed)
	Code    string // Error code (e.g., "invalid_key_format")
	Message string // Human-readable description
}
