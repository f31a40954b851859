package core

import (
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ParseDate parses a DateLayout date; the empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s = CleanString(s); s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// ParseTime parses a TimeLayout hour; the empty string is the zero time.
func ParseTime(s string) (time.Time, error) {
	if s = CleanString(s); s == "" {
		return time.Time{}, nil
	}
	return time.Parse(TimeLayout, s)
}

// Logger is implemented by every logging backend of the app.
// expected args fmt: error, map[string]interface{}, auth.Admin
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// NopLogger discards everything except Fatal, which still panics.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{})       {}
func (NopLogger) Info(string, ...interface{})        {}
func (NopLogger) Warn(string, ...interface{})        {}
func (NopLogger) Error(string, ...interface{})       {}
func (NopLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }
