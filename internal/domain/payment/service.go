package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sitesmith/sitesmith-api/internal/pkg/checkout"
)

// sessionTTL is the fixed lifetime of a checkout session.
const sessionTTL = 30 * time.Minute

const lineItemCurrency = "usd"

// CheckoutClient opens payment sessions with the external processor
type CheckoutClient interface {
	CreateSession(ctx context.Context, req checkout.CreateSessionRequest) (*checkout.Session, error)
}

// Service initiates credit purchases. It records the attempt and opens
// the checkout session; the ledger increment on successful payment
// belongs to the provider callback, never to this service.
type Service struct {
	repo        Repository
	client      CheckoutClient
	frontendURL string
}

// NewService creates payment service
func NewService(repo Repository, client CheckoutClient, frontendURL string) *Service {
	return &Service{repo: repo, client: client, frontendURL: frontendURL}
}

// InitiatePurchase creates exactly one pending transaction for the plan
// and opens a checkout session carrying the transaction id as metadata.
func (s *Service) InitiatePurchase(ctx context.Context, userID uuid.UUID, planID string) (*Transaction, *checkout.Session, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, nil, ErrUnknownPlan
	}

	now := time.Now()
	tx := &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    plan.Amount,
		Credits:   plan.Credits,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, nil, err
	}

	session, err := s.client.CreateSession(ctx, checkout.CreateSessionRequest{
		LineItem: checkout.LineItem{
			Name:       plan.Name,
			UnitAmount: int64(plan.MinorAmount()),
			Currency:   lineItemCurrency,
			Quantity:   1,
		},
		SuccessURL: s.frontendURL + "/credits/success",
		CancelURL:  s.frontendURL + "/credits/cancel",
		Metadata:   map[string]string{"transaction_id": tx.ID.String()},
		ExpiresAt:  now.Add(sessionTTL).Unix(),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.SetSessionID(ctx, tx.ID, session.ID); err != nil {
		// The session is already open; losing the back-reference is
		// recoverable from the session metadata.
		log.Error().Err(err).Str("transaction_id", tx.ID.String()).Msg("Failed to store checkout session id")
	}

	return tx, session, nil
}

// ListTransactions returns the user's purchase attempts, newest first
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}
