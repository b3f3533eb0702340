package generation

import "github.com/google/uuid"

// CreateRequest starts a new project from a raw prompt
type CreateRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// IterateRequest requests a revision of an existing project
type IterateRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// CreateResponse is returned before the background work runs. Status is
// always "pending": the caller polls the project for the outcome.
type CreateResponse struct {
	ProjectID uuid.UUID `json:"project_id"`
	Status    string    `json:"status"`
}
