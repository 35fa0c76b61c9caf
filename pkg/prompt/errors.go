package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrInvalid is returned when the final submission check leaves
	// validation messages behind.
	ErrInvalid = errors.New("prompt: form has invalid fields")
)
