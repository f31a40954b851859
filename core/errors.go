package core

import (
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupported is returned for operations an entity does not expose.
	ErrUnsupported = errors.New("operation not supported")
	// ErrMissingParent is returned when a child collection is used without its parent id.
	ErrMissingParent = errors.New("missing parent id")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		msgs := make([]string, 0, len(err.Fields))
		for _, f := range err.Fields {
			msgs = append(msgs, f.Field+": "+f.Error)
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// APIError is the single shape every failed call to the platform API is collapsed into.
// Message is the best available human readable text; Fields is only set when the
// server answered with a field -> messages map.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
	Err     error // transport error, if any
}

func (err *APIError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	if err.Err != nil {
		return err.Err.Error()
	}
	if err.Status != 0 {
		return http.StatusText(err.Status)
	}
	return "unknown api error"
}

func (err *APIError) Unwrap() error { return err.Err }

// FieldMessages flattens Fields in a stable (sorted by field) order.
func (err *APIError) FieldMessages() []FieldError {
	names := make([]string, 0, len(err.Fields))
	for name := range err.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	flds := make([]FieldError, 0, len(names))
	for _, name := range names {
		for _, msg := range err.Fields[name] {
			flds = append(flds, FieldError{Field: name, Error: msg})
		}
	}
	return flds
}

// AsAPIError unwraps err down to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsServerError reports whether err is an API error with a 5xx status.
func IsServerError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status >= http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusNotFound
}

// Message returns the message a user should see for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Error()
	}
	return err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
