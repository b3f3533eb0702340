package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 5 * time.Second

// Repository defines project data access
type Repository interface {
	// CreateShell inserts the project row, its initial user message and
	// bumps the owner's total_creations counter in one transaction.
	CreateShell(ctx context.Context, p *Project, initialMessage string) error

	AppendMessage(ctx context.Context, projectID uuid.UUID, role, content string) (uuid.UUID, error)
	CreateVersion(ctx context.Context, projectID uuid.UUID, code, description string) (uuid.UUID, error)
	SetCurrentVersion(ctx context.Context, projectID, versionID uuid.UUID, code string) error

	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Project, error)
	ListMessages(ctx context.Context, projectID uuid.UUID) ([]Message, error)
	ListVersions(ctx context.Context, projectID uuid.UUID) ([]Version, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Project, error)
	TogglePublish(ctx context.Context, id, userID uuid.UUID) (*Project, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates project repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateShell(ctx context.Context, p *Project, initialMessage string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("project repository create shell: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx2, `
		INSERT INTO projects (id, user_id, name, initial_prompt, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $5)
	`, p.ID, p.UserID, p.Name, p.InitialPrompt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("project repository create shell: insert project: %w", err)
	}

	_, err = tx.ExecContext(ctx2, `
		INSERT INTO project_messages (id, project_id, role, content)
		VALUES (gen_random_uuid(), $1, $2, $3)
	`, p.ID, RoleUser, initialMessage)
	if err != nil {
		return fmt.Errorf("project repository create shell: insert message: %w", err)
	}

	_, err = tx.ExecContext(ctx2, `
		UPDATE users SET total_creations = total_creations + 1, updated_at = NOW() WHERE id = $1
	`, p.UserID)
	if err != nil {
		return fmt.Errorf("project repository create shell: bump total creations: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("project repository create shell: commit: %w", err)
	}

	return nil
}

func (r *repository) AppendMessage(ctx context.Context, projectID uuid.UUID, role, content string) (uuid.UUID, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id := uuid.New()
	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO project_messages (id, project_id, role, content)
		VALUES ($1, $2, $3, $4)
	`, id, projectID, role, content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("project repository append message: %w", err)
	}

	return id, nil
}

func (r *repository) CreateVersion(ctx context.Context, projectID uuid.UUID, code, description string) (uuid.UUID, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id := uuid.New()
	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO project_versions (id, project_id, code, description)
		VALUES ($1, $2, $3, $4)
	`, id, projectID, code, description)
	if err != nil {
		return uuid.Nil, fmt.Errorf("project repository create version: %w", err)
	}

	return id, nil
}

// SetCurrentVersion advances the project's current pointer. The subquery
// guard keeps the pointer from ever referencing another project's version.
func (r *repository) SetCurrentVersion(ctx context.Context, projectID, versionID uuid.UUID, code string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE projects
		SET current_version_id = $2, current_code = $3, updated_at = NOW()
		WHERE id = $1
		  AND EXISTS (SELECT 1 FROM project_versions WHERE id = $2 AND project_id = $1)
	`, projectID, versionID, code)
	if err != nil {
		return fmt.Errorf("project repository set current version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("project repository set current version: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Project, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, name, initial_prompt, current_code, current_version_id, is_published, created_at, updated_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`
	var p Project
	err := r.db.GetContext(ctx2, &p, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("project repository get by id: %w", err)
	}

	return &p, nil
}

// ListMessages returns entries in insertion order: the seq tiebreaker keeps
// the order stable even when timestamps collide.
func (r *repository) ListMessages(ctx context.Context, projectID uuid.UUID) ([]Message, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	messages := make([]Message, 0)
	err := r.db.SelectContext(ctx2, &messages, `
		SELECT id, project_id, seq, role, content, created_at
		FROM project_messages
		WHERE project_id = $1
		ORDER BY created_at ASC, seq ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("project repository list messages: %w", err)
	}

	return messages, nil
}

func (r *repository) ListVersions(ctx context.Context, projectID uuid.UUID) ([]Version, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	versions := make([]Version, 0)
	err := r.db.SelectContext(ctx2, &versions, `
		SELECT id, project_id, code, description, created_at
		FROM project_versions
		WHERE project_id = $1
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("project repository list versions: %w", err)
	}

	return versions, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	projects := make([]Project, 0)
	err := r.db.SelectContext(ctx2, &projects, `
		SELECT id, user_id, name, initial_prompt, current_code, current_version_id, is_published, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("project repository list by user: %w", err)
	}

	return projects, nil
}

func (r *repository) TogglePublish(ctx context.Context, id, userID uuid.UUID) (*Project, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE projects
		SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, initial_prompt, current_code, current_version_id, is_published, created_at, updated_at
	`
	var p Project
	err := r.db.GetContext(ctx2, &p, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("project repository toggle publish: %w", err)
	}

	return &p, nil
}
