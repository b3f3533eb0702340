package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sitesmith/sitesmith-api/internal/domain/payment"
	"github.com/sitesmith/sitesmith-api/internal/pkg/checkout"
)

type fakeRepo struct {
	created    []*payment.Transaction
	sessionIDs map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessionIDs: make(map[uuid.UUID]string)}
}

func (f *fakeRepo) Create(ctx context.Context, tx *payment.Transaction) error {
	cp := *tx
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeRepo) SetSessionID(ctx context.Context, id uuid.UUID, sessionID string) error {
	f.sessionIDs[id] = sessionID
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]payment.Transaction, error) {
	var out []payment.Transaction
	for _, tx := range f.created {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

type fakeCheckout struct {
	gotReq  checkout.CreateSessionRequest
	session *checkout.Session
	err     error
}

func (f *fakeCheckout) CreateSession(ctx context.Context, req checkout.CreateSessionRequest) (*checkout.Session, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func TestInitiatePurchasePro(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCheckout{session: &checkout.Session{ID: "sess_1", URL: "https://pay.example/s/sess_1", Status: "open"}}
	service := payment.NewService(repo, client, "https://app.example")

	userID := uuid.New()
	before := time.Now()

	tx, session, err := service.InitiatePurchase(context.Background(), userID, "pro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected exactly 1 transaction, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.PlanID != "pro" || stored.Amount != 19 || stored.Credits != 400 {
		t.Errorf("transaction = %s/%d/%d, want pro/19/400", stored.PlanID, stored.Amount, stored.Credits)
	}
	if stored.Status != payment.StatusPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
	if stored.UserID != userID {
		t.Error("transaction must belong to the purchasing user")
	}

	if client.gotReq.LineItem.UnitAmount != 1900 {
		t.Errorf("unit amount = %d, want 1900", client.gotReq.LineItem.UnitAmount)
	}
	if client.gotReq.LineItem.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", client.gotReq.LineItem.Quantity)
	}
	if client.gotReq.Metadata["transaction_id"] != tx.ID.String() {
		t.Error("session metadata must carry the transaction id")
	}
	if client.gotReq.SuccessURL != "https://app.example/credits/success" {
		t.Errorf("success url = %q", client.gotReq.SuccessURL)
	}
	if client.gotReq.CancelURL != "https://app.example/credits/cancel" {
		t.Errorf("cancel url = %q", client.gotReq.CancelURL)
	}

	wantExpiry := before.Add(30 * time.Minute).Unix()
	if diff := client.gotReq.ExpiresAt - wantExpiry; diff < 0 || diff > 5 {
		t.Errorf("expiry = %d, want about %d", client.gotReq.ExpiresAt, wantExpiry)
	}

	if session.URL != "https://pay.example/s/sess_1" {
		t.Errorf("session url = %q", session.URL)
	}
	if repo.sessionIDs[tx.ID] != "sess_1" {
		t.Error("session id must be stored on the transaction")
	}
}

func TestInitiatePurchaseUnknownPlan(t *testing.T) {
	repo := newFakeRepo()
	service := payment.NewService(repo, &fakeCheckout{}, "https://app.example")

	_, _, err := service.InitiatePurchase(context.Background(), uuid.New(), "platinum")
	if !errors.Is(err, payment.ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("no transaction may be created for an unknown plan")
	}
}

func TestInitiatePurchaseSessionFailure(t *testing.T) {
	repo := newFakeRepo()
	client := &fakeCheckout{err: errors.New("processor down")}
	service := payment.NewService(repo, client, "https://app.example")

	_, _, err := service.InitiatePurchase(context.Background(), uuid.New(), "basic")
	if err == nil {
		t.Fatal("expected error when the session cannot be opened")
	}

	// The pending row stays for reconciliation; credits are untouched
	// either way since this service never grants them.
	if len(repo.created) != 1 {
		t.Fatalf("expected the pending transaction to remain, got %d", len(repo.created))
	}
}

func TestPlanTable(t *testing.T) {
	tests := []struct {
		id      string
		credits int
		amount  int
		minor   int
	}{
		{"basic", 100, 5, 500},
		{"pro", 400, 19, 1900},
		{"enterprise", 1000, 49, 4900},
	}

	for _, tt := range tests {
		plan, ok := payment.PlanByID(tt.id)
		if !ok {
			t.Fatalf("plan %q missing", tt.id)
		}
		if plan.Credits != tt.credits || plan.Amount != tt.amount || plan.MinorAmount() != tt.minor {
			t.Errorf("plan %q = %d credits/$%d/%d minor, want %d/%d/%d",
				tt.id, plan.Credits, plan.Amount, plan.MinorAmount(), tt.credits, tt.amount, tt.minor)
		}
	}

	if _, ok := payment.PlanByID("free"); ok {
		t.Error("unknown plan id must not resolve")
	}

	if got := len(payment.Plans()); got != 3 {
		t.Errorf("expected 3 plans, got %d", got)
	}
}
