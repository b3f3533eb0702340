package project

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sitesmith/sitesmith-api/internal/middleware"
	"github.com/sitesmith/sitesmith-api/internal/pkg/response"
)

// Handler handles project HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates project handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /projects
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	projects, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, ProjectResponseFromEntity(&projects[i], h.publishedURL(&projects[i])))
	}

	response.OK(w, out)
}

// Get handles GET /projects/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, messages, versions, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Project not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, DetailResponseFromEntity(p, messages, versions, h.publishedURL(p)))
}

// TogglePublish handles POST /projects/{id}/publish
func (h *Handler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.TogglePublish(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Project not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, PublishResponse{
		ID:           p.ID,
		IsPublished:  p.IsPublished,
		PublishedURL: h.publishedURL(p),
	})
}

func (h *Handler) publishedURL(p *Project) string {
	if !p.IsPublished {
		return ""
	}
	return h.service.PublicURL(p.ID)
}
