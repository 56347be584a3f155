package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTypeDeposit    TxType = "deposit"
	TxTypeWithdrawal TxType = "withdrawal"
)

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
)

type Transaction struct {
	ID            int64
	UserID        int64
	OpportunityID *int64
	Type          TxType
	Currency      string
	Amount        decimal.Decimal
	Status        TxStatus
	Memo          string
	Reference     string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// Stats is the admin dashboard snapshot.
type Stats struct {
	Users               int64
	Referrals           int64
	Tasks               int64
	Opportunities       int64
	PendingTransactions int64
}
