package credit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TransactionMeta contains metadata for ledger operations
type TransactionMeta struct {
	RelatedEntityType string
	RelatedEntityID   uuid.UUID
	Description       string
}

// Service interface defines the credit ledger operations
type Service interface {
	// Debit atomically removes credits from a user.
	// Returns ErrInsufficientCredits or ErrUserNotFound.
	Debit(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error

	// Refund atomically restores credits debited for a failed operation
	Refund(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error

	// AddPurchased atomically adds purchased credits to a user
	AddPurchased(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error

	// GetBalance returns the current credit balance for a user
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)

	// HasRefundFor reports whether a refund was already issued for a given
	// related entity. Used to keep compensation legs idempotent.
	HasRefundFor(ctx context.Context, entityType string, entityID uuid.UUID) (bool, error)

	// ListTransactions returns paginated ledger history for a user
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error)
}

// Related entity types recorded on ledger rows
const (
	RelatedEntityProject    = "project"
	RelatedEntityGeneration = "generation"
	RelatedEntityPayment    = "payment"
)

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new credit service
func NewService(db *sqlx.DB) Service {
	return &service{
		repo: NewRepository(db),
	}
}

// NewServiceWithRepository creates a credit service over an explicit repository
func NewServiceWithRepository(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Debit(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.repo.Debit(ctx, userID.String(), amount, toTxMeta(meta))
}

func (s *service) Refund(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.repo.Credit(ctx, userID.String(), amount, string(TxTypeRefund), toTxMeta(meta))
}

func (s *service) AddPurchased(ctx context.Context, userID uuid.UUID, amount int, meta TransactionMeta) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return s.repo.Credit(ctx, userID.String(), amount, string(TxTypePurchase), toTxMeta(meta))
}

func (s *service) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID.String())
}

func (s *service) HasRefundFor(ctx context.Context, entityType string, entityID uuid.UUID) (bool, error) {
	has, err := s.repo.HasRefundFor(ctx, entityType, entityID.String())
	if err != nil {
		return false, fmt.Errorf("failed to check refund existence: %w", err)
	}
	return has, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	pagination := Pagination{
		Limit:  limit,
		Offset: offset,
	}

	return s.repo.ListTransactions(ctx, userID.String(), pagination)
}

func toTxMeta(meta TransactionMeta) TxMeta {
	txMeta := TxMeta{
		Description: meta.Description,
	}

	if meta.RelatedEntityType != "" {
		txMeta.RelatedEntityType = &meta.RelatedEntityType
	}

	if meta.RelatedEntityID != uuid.Nil {
		entityIDStr := meta.RelatedEntityID.String()
		txMeta.RelatedEntityID = &entityIDStr
	}

	return txMeta
}
