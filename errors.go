package mboardweb

import "github.com/goliatone/go-errors"

const (
	TextCodeSessionNotFound   = "web_session_not_found"
	TextCodeDirectoryFailure  = "web_directory_failure"
	TextCodeNotAuthenticated  = "web_not_authenticated"
	TextCodeNotAuthorized     = "web_not_authorized"
	TextCodeMutationInFlight  = "web_mutation_in_flight"
	TextCodeInvalidTransition = "web_invalid_status_transition"
)

// ErrSessionNotFound is returned when no session record exists for a token.
var ErrSessionNotFound = errors.New("session not found", errors.CategoryNotFound).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeNotFound)

// ErrDirectoryFailure is returned when the directory service rejects or
// fails a call and no message could be extracted from its response.
var ErrDirectoryFailure = errors.New("directory request failed", errors.CategoryOperation).
	WithTextCode(TextCodeDirectoryFailure).
	WithCode(errors.CodeInternal)

// ErrNotAuthenticated is returned when an operation requires an active session.
var ErrNotAuthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrNotAuthorized is returned when the session role does not allow the operation.
var ErrNotAuthorized = errors.New("admin role required", errors.CategoryAuthz).
	WithTextCode(TextCodeNotAuthorized).
	WithCode(errors.CodeForbidden)

// ErrMutationInFlight is returned when a mutation targets an entity that
// already has one in progress.
var ErrMutationInFlight = errors.New("mutation already in flight", errors.CategoryConflict).
	WithTextCode(TextCodeMutationInFlight).
	WithCode(errors.CodeConflict)

// ErrInvalidTransition is returned for a status change the account cannot make.
var ErrInvalidTransition = errors.New("invalid account status transition", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(errors.CodeBadRequest)
