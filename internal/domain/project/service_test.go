package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sitesmith/sitesmith-api/internal/domain/project"
)

type stubRepo struct {
	project.Repository

	projects map[uuid.UUID]*project.Project
	messages map[uuid.UUID][]project.Message
	versions map[uuid.UUID][]project.Version
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		projects: make(map[uuid.UUID]*project.Project),
		messages: make(map[uuid.UUID][]project.Message),
		versions: make(map[uuid.UUID][]project.Version),
	}
}

func (s *stubRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*project.Project, error) {
	p, ok := s.projects[id]
	if !ok || p.UserID != userID {
		return nil, project.ErrNotFound
	}
	return p, nil
}

func (s *stubRepo) ListMessages(ctx context.Context, projectID uuid.UUID) ([]project.Message, error) {
	return s.messages[projectID], nil
}

func (s *stubRepo) ListVersions(ctx context.Context, projectID uuid.UUID) ([]project.Version, error) {
	return s.versions[projectID], nil
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]project.Project, error) {
	var out []project.Project
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubRepo) TogglePublish(ctx context.Context, id, userID uuid.UUID) (*project.Project, error) {
	p, ok := s.projects[id]
	if !ok || p.UserID != userID {
		return nil, project.ErrNotFound
	}
	p.IsPublished = !p.IsPublished
	return p, nil
}

type stubPublisher struct {
	published   map[string]string
	unpublished []string
	failPublish bool
}

func newStubPublisher() *stubPublisher {
	return &stubPublisher{published: make(map[string]string)}
}

func (s *stubPublisher) Publish(ctx context.Context, projectID, html string) error {
	if s.failPublish {
		return errors.New("storage down")
	}
	s.published[projectID] = html
	return nil
}

func (s *stubPublisher) Unpublish(ctx context.Context, projectID string) error {
	s.unpublished = append(s.unpublished, projectID)
	return nil
}

func (s *stubPublisher) PublicURL(projectID string) string {
	return "https://sites.example/" + projectID
}

func addProject(repo *stubRepo, userID uuid.UUID, code string) *project.Project {
	p := &project.Project{ID: uuid.New(), UserID: userID, Name: "site"}
	if code != "" {
		p.CurrentCode = &code
	}
	repo.projects[p.ID] = p
	return p
}

func TestGetOwnershipIsolation(t *testing.T) {
	repo := newStubRepo()
	service := project.NewService(repo, nil)

	owner := uuid.New()
	p := addProject(repo, owner, "<html></html>")

	if _, _, _, err := service.Get(context.Background(), p.ID, owner); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	// A foreign project and a missing project are indistinguishable.
	_, _, _, errForeign := service.Get(context.Background(), p.ID, uuid.New())
	_, _, _, errMissing := service.Get(context.Background(), uuid.New(), owner)

	if !errors.Is(errForeign, project.ErrNotFound) || !errors.Is(errMissing, project.ErrNotFound) {
		t.Fatalf("foreign %v, missing %v, both must be ErrNotFound", errForeign, errMissing)
	}
}

func TestTogglePublishUploadsSite(t *testing.T) {
	repo := newStubRepo()
	publisher := newStubPublisher()
	service := project.NewService(repo, publisher)

	owner := uuid.New()
	p := addProject(repo, owner, "<html>live</html>")

	toggled, err := service.TogglePublish(context.Background(), p.ID, owner)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsPublished {
		t.Fatal("project must be published after first toggle")
	}
	if publisher.published[p.ID.String()] != "<html>live</html>" {
		t.Fatal("current code must be uploaded on publish")
	}

	toggled, err = service.TogglePublish(context.Background(), p.ID, owner)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggled.IsPublished {
		t.Fatal("project must be unpublished after second toggle")
	}
	if len(publisher.unpublished) != 1 || publisher.unpublished[0] != p.ID.String() {
		t.Fatal("site must be removed on unpublish")
	}
}

func TestTogglePublishWithoutCode(t *testing.T) {
	repo := newStubRepo()
	publisher := newStubPublisher()
	service := project.NewService(repo, publisher)

	owner := uuid.New()
	p := addProject(repo, owner, "")

	toggled, err := service.TogglePublish(context.Background(), p.ID, owner)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsPublished {
		t.Fatal("toggle must still flip the flag")
	}
	if len(publisher.published) != 0 {
		t.Fatal("nothing to upload without generated code")
	}
}

func TestTogglePublishStorageFailureKeepsToggle(t *testing.T) {
	repo := newStubRepo()
	publisher := newStubPublisher()
	publisher.failPublish = true
	service := project.NewService(repo, publisher)

	owner := uuid.New()
	p := addProject(repo, owner, "<html></html>")

	toggled, err := service.TogglePublish(context.Background(), p.ID, owner)
	if err != nil {
		t.Fatalf("toggle must not fail on upload error: %v", err)
	}
	if !toggled.IsPublished {
		t.Fatal("flag must stay flipped when the upload fails")
	}
}

func TestTogglePublishForeignProject(t *testing.T) {
	repo := newStubRepo()
	service := project.NewService(repo, newStubPublisher())

	p := addProject(repo, uuid.New(), "<html></html>")

	if _, err := service.TogglePublish(context.Background(), p.ID, uuid.New()); !errors.Is(err, project.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
