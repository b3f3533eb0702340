package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sitesmith/sitesmith-api/internal/middleware"
	"github.com/sitesmith/sitesmith-api/internal/pkg/response"
	"github.com/sitesmith/sitesmith-api/internal/pkg/validator"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Checkout handles POST /payments/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	userID := middleware.GetUserID(r.Context())
	tx, session, err := h.service.InitiatePurchase(r.Context(), userID, req.PlanID)
	if err != nil {
		if errors.Is(err, ErrUnknownPlan) {
			response.BadRequest(w, "Unknown plan")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, CheckoutResponse{
		TransactionID: tx.ID,
		CheckoutURL:   session.URL,
		Credits:       tx.Credits,
		Amount:        tx.Amount,
	})
}

// Plans handles GET /payments/plans
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	out := make([]PlanResponse, 0, 3)
	for _, p := range Plans() {
		out = append(out, PlanResponse{ID: p.ID, Name: p.Name, Credits: p.Credits, Amount: p.Amount})
	}
	response.OK(w, out)
}
