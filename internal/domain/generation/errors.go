package generation

import "errors"

// Domain errors
var (
	ErrEmptyPrompt = errors.New("prompt is empty")
)
