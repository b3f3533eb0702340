package payment

import "github.com/google/uuid"

// CheckoutRequest initiates a credit purchase
type CheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required,plan"`
}

// CheckoutResponse carries the redirect target for the opened session
type CheckoutResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	CheckoutURL   string    `json:"checkout_url"`
	Credits       int       `json:"credits"`
	Amount        int       `json:"amount"`
}

// PlanResponse is one purchasable plan
type PlanResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
	Amount  int    `json:"amount"`
}
