package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SitePublisher serves published project pages. The zero dependency is
// legal: with a nil publisher the toggle still works, only the upload is
// skipped.
type SitePublisher interface {
	Publish(ctx context.Context, projectID string, html string) error
	Unpublish(ctx context.Context, projectID string) error
	PublicURL(projectID string) string
}

// Service handles project reads and the publish toggle
type Service struct {
	repo      Repository
	publisher SitePublisher
}

// NewService creates project service
func NewService(repo Repository, publisher SitePublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// Get returns a project with its ordered conversation log and versions.
// A foreign project behaves exactly like a missing one.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Project, []Message, []Version, error) {
	p, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	messages, err := s.repo.ListMessages(ctx, p.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	versions, err := s.repo.ListVersions(ctx, p.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	return p, messages, versions, nil
}

// List returns the user's projects, most recently updated first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	return s.repo.ListByUser(ctx, userID)
}

// TogglePublish flips the publish flag after re-verifying ownership.
// The site upload is best-effort: a storage failure is logged and does
// not roll the toggle back.
func (s *Service) TogglePublish(ctx context.Context, id, userID uuid.UUID) (*Project, error) {
	p, err := s.repo.TogglePublish(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if s.publisher == nil {
		return p, nil
	}

	if p.IsPublished {
		if p.CurrentCode == nil || *p.CurrentCode == "" {
			log.Warn().Str("project_id", p.ID.String()).Msg("Published project has no generated code yet")
			return p, nil
		}
		if err := s.publisher.Publish(ctx, p.ID.String(), *p.CurrentCode); err != nil {
			log.Error().Err(err).Str("project_id", p.ID.String()).Msg("Failed to upload published site")
		}
	} else {
		if err := s.publisher.Unpublish(ctx, p.ID.String()); err != nil {
			log.Error().Err(err).Str("project_id", p.ID.String()).Msg("Failed to remove published site")
		}
	}

	return p, nil
}

// PublicURL returns the public address for a project's published page,
// or empty when no publisher is configured.
func (s *Service) PublicURL(projectID uuid.UUID) string {
	if s.publisher == nil {
		return ""
	}
	return s.publisher.PublicURL(projectID.String())
}
