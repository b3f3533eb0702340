package project

import "errors"

var (
	// ErrNotFound covers both a missing project and a project owned by
	// another user. The two cases are deliberately indistinguishable so
	// that existence never leaks across owners.
	ErrNotFound = errors.New("project not found")
)
