// Package storetest provides an in-memory store with the semantics of
// repository.Store for tests.
package storetest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

// Store is an in-memory stand-in for repository.Store. It is safe for
// concurrent use.
type Store struct {
	mu            sync.Mutex
	users         map[int64]*domain.User
	tasks         map[int64]*domain.Task
	opportunities map[int64]*domain.Opportunity
	transactions  map[int64]*domain.Transaction
	referrals     map[int64]*domain.Referral // keyed by referred id
	settings      map[string]json.RawMessage
	nextID        int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:         map[int64]*domain.User{},
		tasks:         map[int64]*domain.Task{},
		opportunities: map[int64]*domain.Opportunity{},
		transactions:  map[int64]*domain.Transaction{},
		referrals:     map[int64]*domain.Referral{},
		settings:      map[string]json.RawMessage{},
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.CompletedTasks = append([]int64(nil), u.CompletedTasks...)
	c.CryptoBalances = make(map[string]decimal.Decimal, len(u.CryptoBalances))
	for k, v := range u.CryptoBalances {
		c.CryptoBalances[k] = v
	}
	return &c
}

// AddUser inserts a plain user.
func (m *Store) AddUser(id int64, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{ID: id, Balance: balance, Role: domain.RoleUser, CryptoBalances: map[string]decimal.Decimal{}}
	m.users[id] = u
}

// User returns a copy of the stored user, nil when absent.
func (m *Store) User(id int64) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	return copyUser(u)
}

// SetCryptoBalance overwrites one currency balance of a stored user.
func (m *Store) SetCryptoBalance(id int64, currency string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].CryptoBalances[currency] = amount
}

// Setting returns the raw stored value of key.
func (m *Store) Setting(key string) json.RawMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings[key]
}

// SetSetting stores a raw value for key.
func (m *Store) SetSetting(key string, value json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
}

// Counts reports how many referrals, tasks and settings are stored.
func (m *Store) Counts() (referrals, tasks, settings int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.referrals), len(m.tasks), len(m.settings)
}

func (m *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (m *Store) CreateUser(_ context.Context, nu domain.NewUser) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[nu.ID]; ok {
		return false, nil
	}
	m.users[nu.ID] = &domain.User{
		ID: nu.ID, Username: nu.Username, FirstName: nu.FirstName, LastName: nu.LastName,
		Balance: nu.Balance, Role: nu.Role, CryptoBalances: map[string]decimal.Decimal{},
	}
	return true, nil
}

func (m *Store) UpdateUserProfile(_ context.Context, id int64, username, firstName, lastName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Username, u.FirstName, u.LastName = username, firstName, lastName
	return nil
}

func (m *Store) SetUserRole(_ context.Context, id int64, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (m *Store) SetWithdrawalDetail(_ context.Context, id int64, field domain.WithdrawalField, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	switch field {
	case domain.WithdrawalExchangeID:
		u.Withdrawal.ExchangeID = value
	case domain.WithdrawalCryptoAddress:
		u.Withdrawal.CryptoAddress = value
	case domain.WithdrawalBankDetails:
		u.Withdrawal.BankDetails = value
	default:
		return domain.ErrUnknownField
	}
	return nil
}

func (m *Store) ListTasks(context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Task
	for _, t := range m.tasks {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) GetTask(_ context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	c := *t
	return &c, nil
}

func (m *Store) CreateTask(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt = time.Now()
	c := *t
	m.tasks[t.ID] = &c
	return nil
}

func (m *Store) UpdateTask(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	c := *t
	m.tasks[t.ID] = &c
	return nil
}

func (m *Store) DeleteTask(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Store) ListOpportunities(context.Context) ([]*domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Opportunity
	for _, o := range m.opportunities {
		c := *o
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) GetOpportunity(_ context.Context, id int64) (*domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.opportunities[id]
	if !ok {
		return nil, domain.ErrOpportunityNotFound
	}
	c := *o
	return &c, nil
}

func (m *Store) CreateOpportunity(_ context.Context, o *domain.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = m.id()
	c := *o
	m.opportunities[o.ID] = &c
	return nil
}

func (m *Store) UpdateOpportunity(_ context.Context, o *domain.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.opportunities[o.ID]; !ok {
		return domain.ErrOpportunityNotFound
	}
	c := *o
	m.opportunities[o.ID] = &c
	return nil
}

func (m *Store) DeleteOpportunity(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.opportunities[id]; !ok {
		return domain.ErrOpportunityNotFound
	}
	delete(m.opportunities, id)
	return nil
}

func (m *Store) GetTransaction(_ context.Context, id int64) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	c := *t
	return &c, nil
}

func (m *Store) ListTransactions(_ context.Context, status domain.TxStatus, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if t.Status == status {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Store) CreateTransaction(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createTransaction(t)
	return nil
}

func (m *Store) createTransaction(t *domain.Transaction) {
	t.ID = m.id()
	t.CreatedAt = time.Now()
	c := *t
	m.transactions[t.ID] = &c
}

func (m *Store) ApplyReferral(_ context.Context, referrerID, referredID, points int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	referrer, ok := m.users[referrerID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	if _, ok := m.referrals[referredID]; ok {
		return false, nil
	}
	m.referrals[referredID] = &domain.Referral{ID: m.id(), ReferrerID: referrerID, ReferredID: referredID, Points: points}
	referrer.Balance += points
	referrer.Referrals++
	return true, nil
}

func (m *Store) CompleteTask(_ context.Context, userID, taskID int64) (*domain.Task, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, 0, domain.ErrUserNotFound
	}
	t, ok := m.tasks[taskID]
	if !ok {
		return nil, 0, domain.ErrTaskNotFound
	}
	if u.HasCompleted(taskID) {
		return nil, 0, domain.ErrTaskAlreadyDone
	}
	u.CompletedTasks = append(u.CompletedTasks, taskID)
	u.Balance += t.Points
	c := *t
	return &c, u.Balance, nil
}

func (m *Store) Withdraw(_ context.Context, t *domain.Transaction, min decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[t.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	available := u.CryptoBalance(t.Currency)
	if !available.IsPositive() || available.LessThan(min) {
		return domain.ErrInsufficientBalance
	}
	u.CryptoBalances[t.Currency] = decimal.Zero
	t.Type = domain.TxTypeWithdrawal
	t.Status = domain.TxStatusPending
	t.Amount = available
	m.createTransaction(t)
	return nil
}

func (m *Store) Settle(_ context.Context, txID int64, amount decimal.Decimal) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[txID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if t.Status == domain.TxStatusCompleted {
		return nil, domain.ErrAlreadySettled
	}
	if t.Type == domain.TxTypeDeposit {
		if !amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		u := m.users[t.UserID]
		u.CryptoBalances[t.Currency] = u.CryptoBalance(t.Currency).Add(amount)
		t.Amount = amount
	}
	now := time.Now()
	t.Status = domain.TxStatusCompleted
	t.CompletedAt = &now
	c := *t
	return &c, nil
}

func (m *Store) ListSettings(context.Context) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]json.RawMessage, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out, nil
}

func (m *Store) UpdateSetting(_ context.Context, key string, fn func(old json.RawMessage) (json.RawMessage, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, err := fn(m.settings[key])
	if err != nil {
		return err
	}
	m.settings[key] = value
	return nil
}

func (m *Store) Stats(context.Context) (domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := domain.Stats{
		Users:         int64(len(m.users)),
		Referrals:     int64(len(m.referrals)),
		Tasks:         int64(len(m.tasks)),
		Opportunities: int64(len(m.opportunities)),
	}
	for _, t := range m.transactions {
		if t.Status == domain.TxStatusPending {
			st.PendingTransactions++
		}
	}
	return st, nil
}

