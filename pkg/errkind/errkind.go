package errkind

import (
	"errors"
	"net/http"
)

// Kinds shared by every package. Package-level sentinels are built on top of
// these with New so callers can branch on either the precise error or its kind.
var (
	ErrNotFound        = errors.New("not_found")
	ErrAlreadyExists   = errors.New("already_exists")
	ErrInvalidState    = errors.New("invalid_state")
	ErrValidation      = errors.New("validation_failure")
	ErrMissingFallback = errors.New("missing_fallback")
	ErrForbidden       = errors.New("forbidden")
	ErrUpstream        = errors.New("upstream_failure")
	ErrPartialFailure  = errors.New("partial_failure")
)

// kindError is a sentinel that belongs to a kind.
type kindError struct {
	kind error
	key  string // Translation key (e.g., "catalog.errors.service_not_found")
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel error that matches kind under errors.Is.
// Error returns msg; key is exposed through Key.
func New(kind error, key, msg string) error {
	return &kindError{kind: kind, key: key, msg: msg}
}

// Key returns the translation key of the first sentinel in err's chain.
// Errors without one fall back to their Classify key.
func Key(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.key
	}
	return Classify(err).Key
}

// Outcome is the stable, caller-facing classification of an error.
type Outcome struct {
	Code int    // HTTP status code
	Key  string // Stable kind key
}

// outcomes keeps the order used by Classify: partial failure must win over
// the upstream cause it is usually joined with.
var outcomes = []struct {
	kind    error
	outcome Outcome
}{
	{ErrPartialFailure, Outcome{Code: http.StatusInternalServerError, Key: "partial_failure"}},
	{ErrForbidden, Outcome{Code: http.StatusForbidden, Key: "forbidden"}},
	{ErrNotFound, Outcome{Code: http.StatusNotFound, Key: "not_found"}},
	{ErrAlreadyExists, Outcome{Code: http.StatusConflict, Key: "already_exists"}},
	{ErrInvalidState, Outcome{Code: http.StatusConflict, Key: "invalid_state"}},
	{ErrMissingFallback, Outcome{Code: http.StatusBadRequest, Key: "missing_fallback"}},
	{ErrValidation, Outcome{Code: http.StatusUnprocessableEntity, Key: "validation_failure"}},
	{ErrUpstream, Outcome{Code: http.StatusBadGateway, Key: "upstream_failure"}},
}

// Classify maps err to its outcome. Unknown errors map to 500 "internal".
// A nil error maps to 200 "ok".
func Classify(err error) Outcome {
	if err == nil {
		return Outcome{Code: http.StatusOK, Key: "ok"}
	}
	for _, o := range outcomes {
		if errors.Is(err, o.kind) {
			return o.outcome
		}
	}
	return Outcome{Code: http.StatusInternalServerError, Key: "internal"}
}
