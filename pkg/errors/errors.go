// Package errors provides custom error types for the mdm system.
// Fatal load failures (missing or malformed sources) are modeled as typed
// errors that abort startup; routine per-record conditions are advisory and
// travel through the resolution diagnostics instead of this package.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the mdm system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceMissing indicates that a required data source is unreadable or absent
	ErrSourceMissing = errors.New("source missing")

	// ErrSourceMalformed indicates that a source container does not match the expected shape
	ErrSourceMalformed = errors.New("source malformed")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// MissingSourceError represents a required source that is unreadable or
// absent. This is fatal at startup: no partial store is ever published.
type MissingSourceError struct {
	Source string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *MissingSourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source %s unreadable at %s: %v", e.Source, e.Path, e.Err)
	}
	return fmt.Sprintf("source %s unreadable: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MissingSourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MissingSourceError) Is(target error) bool {
	return target == ErrSourceMissing
}

// NewMissingSourceError creates a new MissingSourceError
func NewMissingSourceError(source, path string, err error) *MissingSourceError {
	return &MissingSourceError{Source: source, Path: path, Err: err}
}

// MalformedSourceError represents a source whose container does not match
// the expected schema shape. Fatal at startup, same handling as a missing
// source.
type MalformedSourceError struct {
	Source  string
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *MalformedSourceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("source %s malformed: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("source %s malformed: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MalformedSourceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MalformedSourceError) Is(target error) bool {
	return target == ErrSourceMalformed
}

// NewMalformedSourceError creates a new MalformedSourceError
func NewMalformedSourceError(source, path, message string, err error) *MalformedSourceError {
	return &MalformedSourceError{Source: source, Path: path, Message: message, Err: err}
}

// MalformedRecordError represents an individual record lacking an identity
// key. The record is discarded and processing continues; the aggregator
// records the discard as a warning diagnostic rather than failing the load.
type MalformedRecordError struct {
	Source  string
	Index   int
	Message string
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d in source %s: %s", e.Index, e.Source, e.Message)
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(source string, index int, message string) *MalformedRecordError {
	return &MalformedRecordError{Source: source, Index: index, Message: message}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsSourceMissing checks if an error indicates an unreadable or absent source
func IsSourceMissing(err error) bool {
	return errors.Is(err, ErrSourceMissing)
}

// IsSourceMalformed checks if an error indicates a malformed source container
func IsSourceMalformed(err error) bool {
	return errors.Is(err, ErrSourceMalformed)
}

// IsFatalLoad checks whether a load error must abort startup
func IsFatalLoad(err error) bool {
	return IsSourceMissing(err) || IsSourceMalformed(err)
}
