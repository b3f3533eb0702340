package generation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sitesmith/sitesmith-api/internal/domain/credit"
	"github.com/sitesmith/sitesmith-api/internal/domain/project"
	"github.com/sitesmith/sitesmith-api/internal/domain/user"
	"github.com/sitesmith/sitesmith-api/internal/middleware"
	"github.com/sitesmith/sitesmith-api/internal/pkg/response"
	"github.com/sitesmith/sitesmith-api/internal/pkg/validator"
)

// Handler handles generation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates generation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /projects
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Create(r.Context(), userID, req.Prompt)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Accepted(w, CreateResponse{ProjectID: p.ID, Status: "pending"})
}

// Iterate handles POST /projects/{id}/generations
func (h *Handler) Iterate(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	var req IterateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Iterate(r.Context(), userID, projectID, req.Prompt)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Accepted(w, CreateResponse{ProjectID: p.ID, Status: "pending"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyPrompt):
		response.BadRequest(w, "Prompt must not be empty")
	case errors.Is(err, credit.ErrInsufficientCredits):
		response.PaymentRequired(w, "Not enough credits for a generation")
	case errors.Is(err, project.ErrNotFound):
		response.NotFound(w, "Project not found")
	case errors.Is(err, user.ErrNotFound):
		response.Unauthorized(w, "User not found")
	default:
		response.InternalError(w)
	}
}
