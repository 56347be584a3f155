package repository

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	earnhub "github.com/set-night/earnhub"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

// newTestStore connects to TEST_DATABASE_URL, migrates it and empties every
// table. The database is wiped, so never point it at real data.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := NewPool(ctx, url)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(pool.Close)

	migrations, err := fs.Sub(earnhub.MigrationsFS, "migrations")
	if err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(url, migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE users, tasks, task_completions, referrals,
		opportunities, transactions, settings RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewStore(pool)
}

func mustUser(t *testing.T, s *Store, id, balance int64) {
	t.Helper()
	created, err := s.CreateUser(context.Background(), domain.NewUser{ID: id, Balance: balance, Role: domain.RoleUser})
	if err != nil || !created {
		t.Fatalf("create user %d: created=%v err=%v", id, created, err)
	}
}

func mustGetUser(t *testing.T, s *Store, id int64) *domain.User {
	t.Helper()
	u, err := s.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("get user %d: %v", id, err)
	}
	return u
}

func TestPostgresApplyReferralOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, 1, 100)
	mustUser(t, s, 2, 100)

	applied, err := s.ApplyReferral(ctx, 1, 2, 5)
	if err != nil || !applied {
		t.Fatalf("first referral: applied=%v err=%v", applied, err)
	}
	applied, err = s.ApplyReferral(ctx, 1, 2, 5)
	if err != nil || applied {
		t.Fatalf("repeated referral: applied=%v err=%v", applied, err)
	}

	u := mustGetUser(t, s, 1)
	if u.Balance != 105 || u.Referrals != 1 {
		t.Errorf("referrer balance=%d referrals=%d, want 105 and 1", u.Balance, u.Referrals)
	}
	if n, _ := s.CountReferrals(ctx); n != 1 {
		t.Errorf("referral rows = %d, want 1", n)
	}
}

func TestPostgresApplyReferralConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, 1, 0)
	mustUser(t, s, 3, 0)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	// Two referrers race for the same referred user; the first write wins.
	for i := 0; i < 10; i++ {
		referrer := int64(1)
		if i%2 == 1 {
			referrer = 3
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.ApplyReferral(ctx, referrer, 2, 5)
			if err != nil {
				t.Errorf("apply referral: %v", err)
				return
			}
			if ok {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if applied != 1 {
		t.Errorf("applied %d times, want 1", applied)
	}
	total := mustGetUser(t, s, 1).Balance + mustGetUser(t, s, 3).Balance
	if total != 5 {
		t.Errorf("points credited = %d, want 5", total)
	}
}

func TestPostgresApplyReferralUnknownReferrer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ApplyReferral(ctx, 404, 2, 5)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if n, _ := s.CountReferrals(ctx); n != 0 {
		t.Errorf("referral rows = %d, want 0", n)
	}
}

func TestPostgresCompleteTaskOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, 1, 100)
	task := &domain.Task{Name: "News", ChannelID: "@news", Points: 10}
	if err := s.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.CompleteTask(ctx, 1, task.ID)
			switch {
			case err == nil:
				mu.Lock()
				wins++
				mu.Unlock()
			case !errors.Is(err, domain.ErrTaskAlreadyDone):
				t.Errorf("complete task: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("completed %d times, want 1", wins)
	}
	u := mustGetUser(t, s, 1)
	if u.Balance != 110 {
		t.Errorf("balance = %d, want 110", u.Balance)
	}
	if !u.HasCompleted(task.ID) {
		t.Error("completion not recorded")
	}

	if _, _, err := s.CompleteTask(ctx, 1, task.ID); !errors.Is(err, domain.ErrTaskAlreadyDone) {
		t.Errorf("second claim err = %v, want ErrTaskAlreadyDone", err)
	}
	if _, _, err := s.CompleteTask(ctx, 1, 999); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("missing task err = %v, want ErrTaskNotFound", err)
	}
}

func newOpportunity(t *testing.T, s *Store, minWithdrawal string) *domain.Opportunity {
	t.Helper()
	o := &domain.Opportunity{
		Name: "Vault", Address: "0xabc", Currency: "USDT",
		MinWithdrawal: decimal.RequireFromString(minWithdrawal),
	}
	if err := s.CreateOpportunity(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	return o
}

func pendingTx(userID int64, o *domain.Opportunity, typ domain.TxType) *domain.Transaction {
	oppID := o.ID
	return &domain.Transaction{
		UserID: userID, OpportunityID: &oppID, Type: typ, Currency: o.Currency,
		Amount: decimal.Zero, Status: domain.TxStatusPending, Memo: "1", Reference: uuid.NewString(),
	}
}

func TestPostgresWithdrawInsufficientDebitsNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, 1, 0)
	o := newOpportunity(t, s, "10")
	if err := s.SetCryptoBalances(ctx, 1, map[string]decimal.Decimal{"USDT": decimal.NewFromInt(5)}); err != nil {
		t.Fatal(err)
	}

	err := s.Withdraw(ctx, pendingTx(1, o, domain.TxTypeWithdrawal), o.MinWithdrawal)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := mustGetUser(t, s, 1).CryptoBalance("USDT"); !got.Equal(decimal.NewFromInt(5)) {
		t.Errorf("balance = %s, want 5", got)
	}
	if n, _ := s.CountTransactions(ctx, domain.TxStatusPending); n != 0 {
		t.Errorf("pending = %d, want 0", n)
	}
}

func TestPostgresWithdrawAndSettle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, 1, 0)
	o := newOpportunity(t, s, "10")
	if err := s.SetCryptoBalances(ctx, 1, map[string]decimal.Decimal{"USDT": decimal.RequireFromString("15.5")}); err != nil {
		t.Fatal(err)
	}

	tx := pendingTx(1, o, domain.TxTypeWithdrawal)
	if err := s.Withdraw(ctx, tx, o.MinWithdrawal); err != nil {
		t.Fatal(err)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("withdrawn = %s, want 15.5", tx.Amount)
	}
	if got := mustGetUser(t, s, 1).CryptoBalance("USDT"); !got.IsZero() {
		t.Errorf("balance after withdraw = %s, want 0", got)
	}

	settled, err := s.Settle(ctx, tx.ID, decimal.Zero)
	if err != nil {
		t.Fatal(err)
	}
	if settled.Status != domain.TxStatusCompleted || settled.CompletedAt == nil {
		t.Errorf("settled = %+v", settled)
	}
	if !settled.Amount.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("settled amount = %s, want 15.5", settled.Amount)
	}
	if _, err := s.Settle(ctx, tx.ID, decimal.Zero); !errors.Is(err, domain.ErrAlreadySettled) {
		t.Errorf("second settle err = %v, want ErrAlreadySettled", err)
	}
}

func TestPostgresSettleDeposit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, 1, 0)
	o := newOpportunity(t, s, "0")

	tx := pendingTx(1, o, domain.TxTypeDeposit)
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Settle(ctx, tx.ID, decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("zero amount err = %v, want ErrInvalidAmount", err)
	}
	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.TxStatusPending {
		t.Errorf("status after rejected settle = %s, want pending", got.Status)
	}

	if _, err := s.Settle(ctx, tx.ID, decimal.RequireFromString("12.5")); err != nil {
		t.Fatal(err)
	}
	if bal := mustGetUser(t, s, 1).CryptoBalance("USDT"); !bal.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("credited = %s, want 12.5", bal)
	}
	if _, err := s.Settle(ctx, tx.ID, decimal.NewFromInt(1)); !errors.Is(err, domain.ErrAlreadySettled) {
		t.Errorf("second settle err = %v, want ErrAlreadySettled", err)
	}
	if bal := mustGetUser(t, s, 1).CryptoBalance("USDT"); !bal.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("balance after second settle = %s, want 12.5", bal)
	}
}

func TestPostgresDeleteOpportunity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	o := newOpportunity(t, s, "0")

	if err := s.DeleteOpportunity(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetOpportunity(ctx, o.ID); !errors.Is(err, domain.ErrOpportunityNotFound) {
		t.Errorf("get after delete err = %v", err)
	}
	if err := s.DeleteOpportunity(ctx, o.ID); !errors.Is(err, domain.ErrOpportunityNotFound) {
		t.Errorf("second delete err = %v, want ErrOpportunityNotFound", err)
	}
}
