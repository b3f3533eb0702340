package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository provides atomic balance mutations and ledger reads.
type Repository interface {
	Debit(ctx context.Context, userID string, amount int, meta TxMeta) error
	Credit(ctx context.Context, userID string, amount int, txType string, meta TxMeta) error
	GetBalance(ctx context.Context, userID string) (int, error)
	HasRefundFor(ctx context.Context, entityType, entityID string) (bool, error)
	ListTransactions(ctx context.Context, userID string, pagination Pagination) ([]Transaction, error)
}

// LedgerRepository implements Repository against Postgres.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Debit atomically removes amount from the user's balance. The row lock
// serializes concurrent debits and refunds on the same user, so the
// balance can never go negative.
func (r *LedgerRepository) Debit(ctx context.Context, userID string, amount int, meta TxMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var balance int
	err = tx.QueryRowContext(ctx2, `SELECT credit_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: lock user row", ErrInternal)
	}

	if balance < amount {
		return ErrInsufficientCredits
	}

	_, err = tx.ExecContext(ctx2, `UPDATE users SET credit_balance = credit_balance - $2 WHERE id = $1`, userID, amount)
	if err != nil {
		return fmt.Errorf("%w: update user balance", ErrInternal)
	}

	if err := r.insertLedger(ctx2, tx, userID, -amount, string(TxTypeDebit), meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

// Credit atomically adds amount to the user's balance.
func (r *LedgerRepository) Credit(ctx context.Context, userID string, amount int, txType string, meta TxMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx2, `
		UPDATE users
		SET credit_balance = credit_balance + $2
		WHERE id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("%w: update user balance", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	if err := r.insertLedger(ctx2, tx, userID, amount, txType, meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `SELECT credit_balance FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("%w: get balance", ErrInternal)
	}

	return balance, nil
}

// HasRefundFor reports whether a refund ledger row already references the
// given entity.
func (r *LedgerRepository) HasRefundFor(ctx context.Context, entityType, entityID string) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(1) FROM credit_transactions
		WHERE tx_type = $1 AND related_entity_type = $2 AND related_entity_id = $3
	`, string(TxTypeRefund), entityType, entityID)
	if err != nil {
		return false, fmt.Errorf("%w: check refund", ErrInternal)
	}

	return count > 0, nil
}

func (r *LedgerRepository) ListTransactions(ctx context.Context, userID string, pagination Pagination) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions := make([]Transaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT id, user_id, amount_delta, tx_type, related_entity_type, related_entity_id, description, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions", ErrInternal)
	}

	return transactions, nil
}

func (r *LedgerRepository) insertLedger(ctx context.Context, tx *sqlx.Tx, userID string, amountDelta int, txType string, meta TxMeta) error {
	txType = strings.TrimSpace(txType)
	if txType != string(TxTypeDebit) && txType != string(TxTypeRefund) && txType != string(TxTypePurchase) {
		return ErrInternal
	}

	if strings.TrimSpace(meta.Description) == "" {
		meta.Description = "credit balance adjustment"
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (
			id, user_id, amount_delta, tx_type, related_entity_type, related_entity_id, description
		)
		VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6
		)
	`, userID, amountDelta, txType, meta.RelatedEntityType, meta.RelatedEntityID, meta.Description)
	if err != nil {
		return fmt.Errorf("%w: insert transaction", ErrInternal)
	}

	return nil
}
