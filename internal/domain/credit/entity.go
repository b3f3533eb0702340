package credit

import "time"

// TxType defines supported ledger transaction types.
type TxType string

const (
	TxTypeDebit    TxType = "debit"
	TxTypeRefund   TxType = "refund"
	TxTypePurchase TxType = "purchase"
)

// TxMeta represents optional metadata attached to a ledger row.
type TxMeta struct {
	RelatedEntityType *string
	RelatedEntityID   *string
	Description       string
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}

// Transaction is a ledger row. Rows are append-only bookkeeping internal
// to the ledger; they are not part of any project's conversation log.
type Transaction struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	AmountDelta       int       `db:"amount_delta" json:"amount_delta"`
	TxType            string    `db:"tx_type" json:"tx_type"`
	RelatedEntityType *string   `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *string   `db:"related_entity_id" json:"related_entity_id,omitempty"`
	Description       string    `db:"description" json:"description"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
