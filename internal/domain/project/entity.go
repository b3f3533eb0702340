package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxNameLen caps the derived project name, ellipsis included.
const maxNameLen = 50

// Project is a website-generation workspace owned by one user
type Project struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	UserID           uuid.UUID     `db:"user_id" json:"user_id"`
	Name             string        `db:"name" json:"name"`
	InitialPrompt    string        `db:"initial_prompt" json:"initial_prompt"`
	CurrentCode      *string       `db:"current_code" json:"current_code,omitempty"`
	CurrentVersionID uuid.NullUUID `db:"current_version_id" json:"current_version_id,omitempty"`
	IsPublished      bool          `db:"is_published" json:"is_published"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// Message is one append-only conversation entry. Entries are never
// mutated or deleted: in ascending order they are the audit trail of the
// generation pipeline's progress and failures.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProjectID uuid.UUID `db:"project_id" json:"project_id"`
	Seq       int64     `db:"seq" json:"-"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Version is an immutable snapshot of generated code
type Version struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProjectID   uuid.UUID `db:"project_id" json:"project_id"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DeriveName builds a project name from the initial prompt: at most 50
// characters, with a trailing ellipsis when truncated.
func DeriveName(prompt string) string {
	name := strings.TrimSpace(prompt)
	runes := []rune(name)
	if len(runes) <= maxNameLen {
		return name
	}
	return strings.TrimSpace(string(runes[:maxNameLen-3])) + "..."
}
