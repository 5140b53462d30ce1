package core

import "fmt"

// Error wraps an underlying error with a stable machine-readable code and
// optional structured details.
type Error struct {
	Err     error
	Code    string
	Details map[string]any
}

// NewError creates a coded error.
func NewError(err error, code string, details map[string]any) *Error {
	return &Error{Err: err, Code: code, Details: details}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}
