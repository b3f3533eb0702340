package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository defines transaction persistence operations
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	SetSessionID(ctx context.Context, id uuid.UUID, sessionID string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Transaction, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tx *Transaction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO payment_transactions (id, user_id, plan_id, amount, credits, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, tx.ID, tx.UserID, tx.PlanID, tx.Amount, tx.Credits, tx.Status)
	if err != nil {
		return fmt.Errorf("payment repository create: %w", err)
	}

	return nil
}

func (r *repository) SetSessionID(ctx context.Context, id uuid.UUID, sessionID string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		UPDATE payment_transactions SET checkout_session_id = $2, updated_at = NOW() WHERE id = $1
	`, id, sessionID)
	if err != nil {
		return fmt.Errorf("payment repository set session id: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []Transaction
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM payment_transactions WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("payment repository list by user: %w", err)
	}

	return out, nil
}
