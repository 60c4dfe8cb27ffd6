package metrics

import (
	"errors"
	"fmt"
)

// Error codes for metrics loading.
const (
	ErrCodeMissingFile       = "E101"
	ErrCodeInvalidReport     = "E102"
	ErrCodeInvalidThresholds = "E103"
)

// ErrMissingField marks a report field that was absent and replaced by
// its failing default.
var ErrMissingField = errors.New("missing field")

// LoadError is returned by LoadReport and LoadThresholds.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the LoadError code from err, or "" if there is none.
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
