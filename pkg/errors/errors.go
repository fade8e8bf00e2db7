package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeStore represents source-store (Postgres) errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeExtract represents LLM extraction errors
	ErrorTypeExtract ErrorType = "extract"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Store Errors

// ErrStoreQueryFailed is returned when a source-store query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Table string
}

func NewStoreQueryFailed(table string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("query failed on table: %s", table), err),
		Table:     table,
	}
}

// Extract Errors

// ErrExtractionFailed is returned when every extraction strategy fails for a session
type ErrExtractionFailed struct {
	*BaseError
	SessionID string
}

func NewExtractionFailed(sessionID string, err error) *ErrExtractionFailed {
	return &ErrExtractionFailed{
		BaseError: NewBaseError(ErrorTypeExtract, fmt.Sprintf("extraction failed for session: %s", sessionID), err),
		SessionID: sessionID,
	}
}

// ErrMalformedExtraction is returned when the model output cannot be parsed
type ErrMalformedExtraction struct {
	*BaseError
	SessionID string
}

func NewMalformedExtraction(sessionID string, err error) *ErrMalformedExtraction {
	return &ErrMalformedExtraction{
		BaseError: NewBaseError(ErrorTypeExtract, fmt.Sprintf("malformed extraction output for session: %s", sessionID), err),
		SessionID: sessionID,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphSyncFailed is returned when syncing an extraction to the graph fails
type ErrGraphSyncFailed struct {
	*BaseError
	SessionID string
}

func NewGraphSyncFailed(sessionID string, err error) *ErrGraphSyncFailed {
	return &ErrGraphSyncFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("graph sync failed for session: %s", sessionID), err),
		SessionID: sessionID,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// typer is satisfied by BaseError and, through embedding, by every typed
// error this package constructs.
type typer interface {
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// IsErrorType checks if an error (or any error it wraps) is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var t typer
	if stderrors.As(err, &t) {
		return t.errorType() == errType
	}
	return false
}
