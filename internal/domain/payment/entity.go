package payment

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses. A row is created pending and only an external
// payment callback moves it forward; this service never completes one.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction records one credit-purchase attempt
type Transaction struct {
	ID                uuid.UUID `db:"id" json:"id"`
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	PlanID            string    `db:"plan_id" json:"plan_id"`
	Amount            int       `db:"amount" json:"amount"`
	Credits           int       `db:"credits" json:"credits"`
	Status            string    `db:"status" json:"status"`
	CheckoutSessionID *string   `db:"checkout_session_id" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
