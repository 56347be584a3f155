package service

import (
	"context"
	"encoding/json"

	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

// The interfaces below are satisfied by *repository.Store.

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, nu domain.NewUser) (bool, error)
	UpdateUserProfile(ctx context.Context, id int64, username, firstName, lastName string) error
	SetUserRole(ctx context.Context, id int64, role domain.Role) error
	SetWithdrawalDetail(ctx context.Context, id int64, field domain.WithdrawalField, value string) error
}

type LedgerStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error)
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, status domain.TxStatus, limit, offset int) ([]*domain.Transaction, error)
	CreateTransaction(ctx context.Context, t *domain.Transaction) error
	ApplyReferral(ctx context.Context, referrerID, referredID, points int64) (bool, error)
	CompleteTask(ctx context.Context, userID, taskID int64) (*domain.Task, int64, error)
	Withdraw(ctx context.Context, t *domain.Transaction, min decimal.Decimal) error
	Settle(ctx context.Context, txID int64, amount decimal.Decimal) (*domain.Transaction, error)
}

type TaskStore interface {
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	CreateTask(ctx context.Context, t *domain.Task) error
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, id int64) error
}

type OpportunityStore interface {
	ListOpportunities(ctx context.Context) ([]*domain.Opportunity, error)
	GetOpportunity(ctx context.Context, id int64) (*domain.Opportunity, error)
	CreateOpportunity(ctx context.Context, o *domain.Opportunity) error
	UpdateOpportunity(ctx context.Context, o *domain.Opportunity) error
	DeleteOpportunity(ctx context.Context, id int64) error
}

type SettingsStore interface {
	ListSettings(ctx context.Context) (map[string]json.RawMessage, error)
	UpdateSetting(ctx context.Context, key string, fn func(old json.RawMessage) (json.RawMessage, error)) error
}

type StatsStore interface {
	Stats(ctx context.Context) (domain.Stats, error)
}
