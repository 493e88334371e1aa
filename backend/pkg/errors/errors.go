package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents missing or malformed input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuthentication represents a missing caller identity
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeAuthorization represents an action on a resource the caller does not own
	ErrorTypeAuthorization ErrorType = "authorization"
	// ErrorTypeNotFound represents an empty or missing result
	ErrorTypeNotFound ErrorType = "notfound"
	// ErrorTypeUpstream represents a failed outbound call (title scrape etc.)
	ErrorTypeUpstream ErrorType = "upstream"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
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

// ErrType returns the error category. Promoted through every typed error
// that embeds BaseError.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// UserMessage returns the human-readable message carried by the error
func (e *BaseError) UserMessage() string {
	return e.Message
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

// NewValidation reports missing or malformed input; the message is surfaced
// verbatim to the caller.
func NewValidation(message string) *BaseError {
	return NewBaseError(ErrorTypeValidation, message, nil)
}

// ErrAuthenticationRequired is returned when an operation needs a caller
// identity and none is present.
var ErrAuthenticationRequired = NewBaseError(ErrorTypeAuthentication, "You must be logged in to perform this action", nil)

// ErrCommentNotOwned is returned when a comment deletion is attempted by a
// user who did not author the comment.
type ErrCommentNotOwned struct {
	*BaseError
	CommentID string
}

func NewCommentNotOwned(commentID string) *ErrCommentNotOwned {
	return &ErrCommentNotOwned{
		BaseError: NewBaseError(ErrorTypeAuthorization, "Comment does not belong to you", nil),
		CommentID: commentID,
	}
}

// ErrEdgeNotFound is returned when no edge matches the given identifier
type ErrEdgeNotFound struct {
	*BaseError
	EdgeID string
}

func NewEdgeNotFound(edgeID string) *ErrEdgeNotFound {
	return &ErrEdgeNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("edge not found: %s", edgeID), nil),
		EdgeID:    edgeID,
	}
}

// ErrNodeNotFound is returned when no node matches the given identifier
type ErrNodeNotFound struct {
	*BaseError
	NodeID string
}

func NewNodeNotFound(nodeID string) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("node not found: %s", nodeID), nil),
		NodeID:    nodeID,
	}
}

// NewEmptyResult reports an empty aggregate result as a soft failure
func NewEmptyResult(message string) *BaseError {
	return NewBaseError(ErrorTypeNotFound, message, nil)
}

// ErrGraphQueryFailed is returned when a graph store or index call fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "query failed", err),
		Query:     query,
	}
}

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
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

// ErrFetchFailed is returned when an outbound page fetch fails
type ErrFetchFailed struct {
	*BaseError
	URL string
}

func NewFetchFailed(url string, err error) *ErrFetchFailed {
	return &ErrFetchFailed{
		BaseError: NewBaseError(ErrorTypeUpstream, fmt.Sprintf("failed to fetch page: %s", url), err),
		URL:       url,
	}
}

// Helper functions

type typed interface {
	ErrType() ErrorType
	UserMessage() string
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var t typed
	if stderrors.As(err, &t) {
		return t.ErrType() == errType
	}
	return false
}

// TypeOf returns the error category, defaulting to graph errors for
// anything untyped coming out of the store layer.
func TypeOf(err error) ErrorType {
	var t typed
	if stderrors.As(err, &t) {
		return t.ErrType()
	}
	return ErrorTypeGraph
}

// Reason returns the human-readable message carried by the error, suitable
// for the failure envelope.
func Reason(err error) string {
	var t typed
	if stderrors.As(err, &t) {
		return t.UserMessage()
	}
	return err.Error()
}
