package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holding a prepaid credit balance
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	CreditBalance  int       `db:"credit_balance" json:"credit_balance"`
	TotalCreations int       `db:"total_creations" json:"total_creations"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
