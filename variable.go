package envmanager

import (
	"regexp"
	"strings"
)

var (
	// validKey: starts with an uppercase letter, then uppercase letters, digits or underscores.
	// Comment lines can never match it, so they are never persisted.
	validKey = regexp.MustCompile(`\A[A-Z][A-Z0-9_]+\z`)

	// plainValue: values made only of letters and digits are written unquoted.
	plainValue = regexp.MustCompile(`\A[a-zA-Z0-9]*\z`)
)

// trimCutset matches the characters stripped from keys and values: spaces, tabs,
// newlines, carriage returns, NUL and vertical tabs.
const trimCutset = " \t\n\r\x00\x0B"

// Variable is one validated environment variable. The zero value is not valid;
// use NewVariable or NewVariableWithEmptyValue.
type Variable struct {
	key   string
	value string
}

// NewVariable trims and validates key, and normalizes value with QuoteValue.
// It returns a *VariableError wrapping ErrInvalidKeyFormat for malformed keys.
func NewVariable(key, value string) (Variable, error) {
	key = trim(key)
	if !ValidKey(key) {
		return Variable{}, &VariableError{Key: key, Err: ErrInvalidKeyFormat}
	}

	return Variable{key: key, value: QuoteValue(value)}, nil
}

// NewVariableWithEmptyValue creates a variable whose value is "".
func NewVariableWithEmptyValue(key string) (Variable, error) {
	return NewVariable(key, "")
}

// Key returns the variable name.
func (v Variable) Key() string {
	return v.key
}

// Value returns the normalized, possibly quoted, value.
func (v Variable) Value() string {
	return v.value
}

// Equals compares values only. Two variables with different keys and the
// same value are equal.
func (v Variable) Equals(other Variable) bool {
	return v.value == other.value
}

// String renders the variable as a KEY=value line.
func (v Variable) String() string {
	return v.key + "=" + v.value
}

// ValidKey reports whether key can be written to an environment file.
func ValidKey(key string) bool {
	return validKey.MatchString(key)
}

// QuoteValue trims value and, when it is non-empty and contains anything other
// than ASCII letters and digits, wraps it in double quotes with embedded double
// quotes escaped. Backslashes are left untouched.
func QuoteValue(value string) string {
	value = trim(value)
	if value == "" || plainValue.MatchString(value) {
		return value
	}

	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

func trim(s string) string {
	return strings.Trim(s, trimCutset)
}
