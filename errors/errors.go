package errors

import (
	"errors"
	"fmt"
	"strings"
)

// These are the kinds every resolution failure unwraps to.
var (
	ErrNotFound        = errors.New("configuration key not found")
	ErrParse           = errors.New("could not parse configuration fragment")
	ErrTypeMismatch    = errors.New("configuration type mismatch")
	ErrIO              = errors.New("could not read configuration fragment")
	ErrInvalidSettings = errors.New("invalid session settings")
	ErrAlreadySet      = errors.New("setting already set")
	ErrInvalidOptions  = errors.New("invalid options")
)

// NotFoundError is returned when a point lookup exhausts the ancestor chain.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("`%s` not found in your configuration", e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ParseError represents a fragment whose contents are not valid for its format.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse configuration fragment; path=%s: %v", e.Path, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Underlying returns the error produced by the format parser.
func (e *ParseError) Underlying() error {
	return e.Cause
}

// TypeMismatchError represents a value whose kind conflicts with the accepted kinds
// or with a previously merged value at the same key path.
type TypeMismatchError struct {
	Expected string
	Found    string
	KeyPath  string
	Path     string
}

func (e *TypeMismatchError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("expected %s, but found %s", e.Expected, e.Found))
	if e.KeyPath != "" {
		sb.WriteString(fmt.Sprintf(" at key '%s'", e.KeyPath))
	}
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf(" in %s", e.Path))
	}

	return sb.String()
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// IOError represents a fragment that passed the existence check but could not be read.
type IOError struct {
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("could not read configuration fragment %s: %v", e.Path, e.Cause)
}

func (e *IOError) Unwrap() error {
	return ErrIO
}

// Underlying returns the error produced by the filesystem.
func (e *IOError) Underlying() error {
	return e.Cause
}

// SettingsError wraps multiple validation errors that occurred while building session settings.
type SettingsError struct {
	Errors []error
}

func (e *SettingsError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid session settings")
	if len(e.Errors) >= 1 {
		sb.WriteString(":")
	}

	for _, err := range e.Errors {
		sb.WriteString("\n       ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

func (e *SettingsError) Unwrap() error {
	return ErrInvalidSettings
}

// UnderlyingErrors returns the slice of individual validation errors (immutable).
func (e *SettingsError) UnderlyingErrors() []error {
	if e.Errors == nil {
		return nil
	}

	// Return a copy to prevent mutations
	result := make([]error, len(e.Errors))
	copy(result, e.Errors)

	return result
}

// ValidationError wraps multiple validation errors that occurred while unmarshalling command options.
type ValidationError struct {
	ContextName string
	Errors      []error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.ContextName != "" {
		sb.WriteString(fmt.Sprintf("invalid options for %s", e.ContextName))
	} else {
		sb.WriteString("invalid options")
	}
	if len(e.Errors) >= 1 {
		sb.WriteString(":")
	}

	for _, err := range e.Errors {
		sb.WriteString("\n       ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOptions
}

// UnderlyingErrors returns the slice of individual validation errors (immutable).
func (e *ValidationError) UnderlyingErrors() []error {
	if e.Errors == nil {
		return nil
	}

	result := make([]error, len(e.Errors))
	copy(result, e.Errors)

	return result
}

// AlreadySetError is returned when a set-once setting is assigned a second time.
type AlreadySetError struct {
	Name    string
	Current string
}

func (e *AlreadySetError) Error() string {
	return fmt.Sprintf("%s is already set to '%s'", e.Name, e.Current)
}

func (e *AlreadySetError) Unwrap() error {
	return ErrAlreadySet
}

func NewNotFoundError(key string) error {
	return &NotFoundError{Key: key}
}

func NewParseError(path string, cause error) error {
	return &ParseError{
		Path:  path,
		Cause: cause,
	}
}

func NewTypeMismatchError(expected, found, keyPath, path string) error {
	return &TypeMismatchError{
		Expected: expected,
		Found:    found,
		KeyPath:  keyPath,
		Path:     path,
	}
}

func NewIOError(path string, cause error) error {
	return &IOError{
		Path:  path,
		Cause: cause,
	}
}

func NewSettingsError(errs ...error) error {
	return &SettingsError{Errors: errs}
}

func NewValidationError(contextName string, errs ...error) error {
	return &ValidationError{
		ContextName: contextName,
		Errors:      errs,
	}
}

func NewAlreadySetError(name, current string) error {
	return &AlreadySetError{
		Name:    name,
		Current: current,
	}
}
