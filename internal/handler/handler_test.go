package handler

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/earnhub/internal/callback"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/conversation"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/middleware"
	"github.com/set-night/earnhub/internal/service"
	"github.com/set-night/earnhub/internal/storetest"
	"github.com/shopspring/decimal"
)

type sent struct {
	chatID int64
	text   string
}

// fakeMessenger records outgoing messages instead of calling Telegram.
type fakeMessenger struct {
	mu       sync.Mutex
	messages []sent
	answered int
}

func (f *fakeMessenger) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sent{chatID: p.ChatID.(int64), text: p.Text})
	return &models.Message{}, nil
}

func (f *fakeMessenger) SendPhoto(_ context.Context, p *bot.SendPhotoParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sent{chatID: p.ChatID.(int64), text: p.Caption})
	return &models.Message{}, nil
}

func (f *fakeMessenger) AnswerCallbackQuery(context.Context, *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered++
	return true, nil
}

// last returns the text of the latest message sent to chatID.
func (f *fakeMessenger) last(chatID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].chatID == chatID {
			return f.messages[i].text
		}
	}
	return ""
}

func (f *fakeMessenger) anyContains(chatID int64, substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.chatID == chatID && strings.Contains(m.text, substr) {
			return true
		}
	}
	return false
}

type fakeMembership struct {
	member bool
	err    error
}

func (f *fakeMembership) IsMember(context.Context, string, int64) (bool, error) {
	return f.member, f.err
}

type fixture struct {
	h       *Handler
	store   *storetest.Store
	msgs    *fakeMessenger
	member  *fakeMembership
	convs   *conversation.MemoryStore
	users   *service.UserService
	tasks   *service.TaskService
	ledger  *service.LedgerService
	oppsSvc *service.OpportunityService
}

const adminID = 900

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		AdminIDs:              []int64{adminID},
		DefaultStartBalance:   100,
		DefaultReferralPoints: 5,
		RequiredChannelID:     "@vectoroad",
		RequiredChannelLink:   "https://t.me/vectoroad",
	}
	store := storetest.New()
	settings := service.NewSettingsService(store, cfg)
	member := &fakeMembership{member: true}
	f := &fixture{
		store:   store,
		msgs:    &fakeMessenger{},
		member:  member,
		convs:   conversation.NewMemoryStore(10 * time.Minute),
		users:   service.NewUserService(store, settings, cfg),
		tasks:   service.NewTaskService(store),
		ledger:  service.NewLedgerService(store, member, settings),
		oppsSvc: service.NewOpportunityService(store),
	}
	f.h = New(Deps{
		Messenger:     f.msgs,
		Cfg:           cfg,
		Users:         f.users,
		Ledger:        f.ledger,
		Tasks:         f.tasks,
		Opportunities: f.oppsSvc,
		Settings:      settings,
		Stats:         service.NewStatsService(store),
		Membership:    member,
		Conversations: f.convs,
		BotUsername:   "earnhub_bot",
	})
	return f
}

// login registers (or loads) a user the way UserLoader does.
func (f *fixture) login(t *testing.T, id int64) context.Context {
	t.Helper()
	user, created, err := f.users.FindOrCreate(context.Background(), domain.NewUser{ID: id, FirstName: "U" + strconv.FormatInt(id, 10)})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	return middleware.WithUser(context.Background(), user, created)
}

func (f *fixture) press(t *testing.T, userID int64, data string) {
	t.Helper()
	ctx := f.login(t, userID)
	f.h.handleCallback(ctx, nil, &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "q",
		From: models.User{ID: userID},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate}},
		},
	}})
}

func (f *fixture) reply(t *testing.T, userID int64, text string) {
	t.Helper()
	ctx := f.login(t, userID)
	f.h.handleText(ctx, nil, textUpdate(userID, text))
}

func textUpdate(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Text: text,
		From: &models.User{ID: userID},
		Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
	}}
}

func TestStartAwardsReferralOnce(t *testing.T) {
	f := newFixture(t)
	f.store.AddUser(1, 100)

	ctx := f.login(t, 2)
	f.h.handleStart(ctx, nil, textUpdate(2, "/start referral_1"))

	if got := f.store.User(1).Balance; got != 105 {
		t.Fatalf("referrer balance = %d, want 105", got)
	}
	if !f.msgs.anyContains(1, "You've earned 5 points") {
		t.Error("referrer was not notified")
	}
	if !f.msgs.anyContains(2, "Welcome to EarnHub") {
		t.Error("welcome screen not sent")
	}

	// A returning user is not new; nothing is awarded again.
	f.h.handleStart(f.login(t, 2), nil, textUpdate(2, "/start referral_1"))
	if got := f.store.User(1).Balance; got != 105 {
		t.Errorf("referrer balance after second start = %d, want 105", got)
	}
}

func TestStartSelfReferral(t *testing.T) {
	f := newFixture(t)
	f.h.handleStart(f.login(t, 3), nil, textUpdate(3, "/start referral_3"))

	if got := f.store.User(3).Balance; got != 100 {
		t.Errorf("balance = %d, want start balance 100", got)
	}
}

func TestCallbackRejectsUnknownData(t *testing.T) {
	f := newFixture(t)
	f.press(t, 1, "definitely_not_a_button")

	if got := f.msgs.last(1); got != msgInvalidOption {
		t.Errorf("reply = %q, want %q", got, msgInvalidOption)
	}
	if f.msgs.answered != 1 {
		t.Errorf("answered = %d, want 1", f.msgs.answered)
	}
}

func TestAdminCallbackRequiresRole(t *testing.T) {
	f := newFixture(t)

	f.press(t, 1, callback.Data(callback.KindAdmin))
	if got := f.msgs.last(1); got != msgForbidden {
		t.Errorf("non-admin reply = %q, want %q", got, msgForbidden)
	}

	f.press(t, adminID, callback.Data(callback.KindAdmin))
	if got := f.msgs.last(adminID); !strings.Contains(got, "Admin Panel") {
		t.Errorf("admin reply = %q, want dashboard", got)
	}
}

func TestVerifyJoin(t *testing.T) {
	f := newFixture(t)

	f.member.member = false
	f.press(t, 1, callback.Data(callback.KindJoinVerify))
	if got := f.msgs.last(1); got != msgVerifyJoinFirst {
		t.Errorf("non-member reply = %q", got)
	}

	f.member.err = domain.ErrMembershipUnknown
	f.press(t, 1, callback.Data(callback.KindJoinVerify))
	if got := f.msgs.last(1); got != msgUnableToVerify {
		t.Errorf("lookup failure reply = %q", got)
	}

	f.member.member, f.member.err = true, nil
	f.press(t, 1, callback.Data(callback.KindJoinVerify))
	if !f.msgs.anyContains(1, msgVerifyOK) || !strings.Contains(f.msgs.last(1), "Main Menu") {
		t.Errorf("member did not reach the main menu, last = %q", f.msgs.last(1))
	}
}

func TestClaimTask(t *testing.T) {
	f := newFixture(t)
	task := &domain.Task{Name: "Join", Description: "Join us", ChannelID: "@news", Points: 10}
	if err := f.store.CreateTask(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	data := callback.WithID(callback.KindClaimTask, task.ID)

	f.member.member = false
	f.press(t, 1, data)
	if got := f.msgs.last(1); !strings.Contains(got, "join the task channel") {
		t.Errorf("non-member reply = %q", got)
	}

	f.member.member = true
	f.press(t, 1, data)
	if got := f.msgs.last(1); !strings.Contains(got, "earned 10 points") || !strings.Contains(got, "110 points") {
		t.Errorf("claim reply = %q", got)
	}

	f.press(t, 1, data)
	if got := f.msgs.last(1); !strings.Contains(got, "already completed") {
		t.Errorf("second claim reply = %q", got)
	}
	if got := f.store.User(1).Balance; got != 110 {
		t.Errorf("balance = %d, want 110", got)
	}
}

func TestClaimMissingTask(t *testing.T) {
	f := newFixture(t)
	f.press(t, 1, callback.WithID(callback.KindClaimTask, 42))
	if got := f.msgs.last(1); got != msgNotFound {
		t.Errorf("reply = %q, want %q", got, msgNotFound)
	}
}

func TestWithdrawalDetailForm(t *testing.T) {
	f := newFixture(t)

	f.press(t, 1, "set_crypto_address")
	if got := f.msgs.last(1); !strings.Contains(got, "Crypto Address") {
		t.Fatalf("prompt = %q", got)
	}

	f.reply(t, 1, "  0xdeadbeef ")
	if got := f.store.User(1).Withdrawal.CryptoAddress; got != "0xdeadbeef" {
		t.Errorf("crypto address = %q", got)
	}
	if !strings.Contains(f.msgs.last(1), "saved") {
		t.Errorf("confirmation = %q", f.msgs.last(1))
	}
	if st, _ := f.convs.Get(context.Background(), 1); st != nil {
		t.Errorf("state not cleared: %+v", st)
	}
}

func TestTextWithoutPendingForm(t *testing.T) {
	f := newFixture(t)
	f.reply(t, 1, "hello")
	if got := f.msgs.last(1); got != msgNoPendingForm {
		t.Errorf("reply = %q", got)
	}
}

func TestCancelClearsForm(t *testing.T) {
	f := newFixture(t)
	f.press(t, 1, "set_bank_details")

	f.reply(t, 1, "Cancel")
	if st, _ := f.convs.Get(context.Background(), 1); st != nil {
		t.Errorf("state not cleared: %+v", st)
	}
	if u := f.store.User(1); u.Withdrawal.BankDetails != "" {
		t.Errorf("cancel saved %q", u.Withdrawal.BankDetails)
	}
	if !strings.HasPrefix(f.msgs.last(1), msgCancelled) {
		t.Errorf("reply = %q", f.msgs.last(1))
	}
}

func TestAddTaskFormRepromptsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.press(t, adminID, callback.Data(callback.KindAdminAddTask))
	f.reply(t, adminID, "Join News")
	f.reply(t, adminID, "Follow the news channel")

	f.reply(t, adminID, "not a channel")
	if got := f.msgs.last(adminID); !strings.HasPrefix(got, "❌") {
		t.Errorf("invalid channel reply = %q", got)
	}
	st, _ := f.convs.Get(ctx, adminID)
	if st == nil || st.Step != 2 {
		t.Fatalf("state after invalid input = %+v, want step 2", st)
	}

	f.reply(t, adminID, "@news")
	f.reply(t, adminID, "ten")
	if tasks, _ := f.tasks.List(ctx); len(tasks) != 0 {
		t.Fatal("task created from invalid points")
	}
	f.reply(t, adminID, "10")

	tasks, _ := f.tasks.List(ctx)
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	if task := tasks[0]; task.Name != "Join News" || task.ChannelID != "@news" || task.Points != 10 {
		t.Errorf("task = %+v", task)
	}
	if !strings.Contains(f.msgs.last(adminID), "created") {
		t.Errorf("reply = %q", f.msgs.last(adminID))
	}
}

func TestAdminFormRecheckedOnCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A stale admin form left for a user who is not an admin.
	st, err := conversation.New(conversation.FormEditSetting, 0, domain.SettingReferralPoints)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.convs.Put(ctx, 1, st); err != nil {
		t.Fatal(err)
	}

	f.reply(t, 1, "1000")
	if got := f.msgs.last(1); got != msgForbidden {
		t.Errorf("reply = %q, want %q", got, msgForbidden)
	}
	if f.store.Setting(domain.SettingReferralPoints) != nil {
		t.Error("setting changed by a non-admin")
	}
	if st, _ := f.convs.Get(ctx, 1); st != nil {
		t.Error("state not cleared")
	}
}

func TestEditSettingForm(t *testing.T) {
	f := newFixture(t)
	f.press(t, adminID, callback.WithField(callback.KindEditSetting, 0, domain.SettingReferralPoints))
	f.reply(t, adminID, "7")

	points, err := f.referralPoints()
	if err != nil {
		t.Fatal(err)
	}
	if points != 7 {
		t.Errorf("referral points = %d, want 7", points)
	}
	if !strings.Contains(f.msgs.last(adminID), "Setting saved") {
		t.Errorf("reply = %q", f.msgs.last(adminID))
	}
}

func (f *fixture) referralPoints() (int64, error) {
	return f.h.settings.ReferralPoints(context.Background())
}

func TestDeleteOpportunity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opp := &domain.Opportunity{Name: "Staking", Address: "0xabc", Currency: "USDT"}
	if err := f.store.CreateOpportunity(ctx, opp); err != nil {
		t.Fatal(err)
	}

	f.press(t, adminID, callback.WithID(callback.KindDeleteOpportunity, opp.ID))
	if _, err := f.oppsSvc.Get(ctx, opp.ID); err != nil {
		t.Fatal("asking for confirmation deleted the opportunity")
	}
	f.press(t, adminID, callback.WithID(callback.KindConfirmDeleteOpportunity, opp.ID))
	if opps, _ := f.oppsSvc.List(ctx); len(opps) != 0 {
		t.Errorf("opportunities = %d, want 0", len(opps))
	}
	if got := f.msgs.last(adminID); !strings.Contains(got, "deleted") || strings.Contains(got, "Staking") {
		t.Errorf("listing after delete = %q", got)
	}
}

func TestDepositAndSettle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opp := &domain.Opportunity{
		Name: "Staking", Address: "0xabc", Currency: "USDT",
		QRCodeURL: "https://example.com/qr.png",
	}
	if err := f.store.CreateOpportunity(ctx, opp); err != nil {
		t.Fatal(err)
	}

	f.press(t, 5, callback.WithID(callback.KindDeposit, opp.ID))
	if got := f.msgs.last(5); !strings.Contains(got, "0xabc") || !strings.Contains(got, "`5`") {
		t.Fatalf("deposit screen = %q", got)
	}
	f.press(t, 5, callback.WithID(callback.KindDeposit, opp.ID))
	if pending, _ := f.ledger.PendingTransactions(ctx, 0); len(pending) != 0 {
		t.Fatalf("pending after viewing = %d, want 0", len(pending))
	}

	f.press(t, 5, callback.WithID(callback.KindConfirmDeposit, opp.ID))
	if got := f.msgs.last(5); !strings.Contains(got, "deposit has been confirmed") {
		t.Errorf("confirm reply = %q", got)
	}
	pending, _ := f.ledger.PendingTransactions(ctx, 0)
	if len(pending) != 1 || pending[0].Type != domain.TxTypeDeposit || pending[0].UserID != 5 {
		t.Fatalf("pending after confirm = %+v, want one deposit for user 5", pending)
	}
	txID := pending[0].ID

	f.press(t, adminID, callback.WithID(callback.KindSettleTx, txID))
	f.reply(t, adminID, "0")
	if !strings.Contains(f.msgs.last(adminID), "greater than zero") {
		t.Errorf("zero amount reply = %q", f.msgs.last(adminID))
	}
	f.reply(t, adminID, "12.5")

	if got := f.store.User(5).CryptoBalance("USDT"); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("credited = %s, want 12.5", got)
	}
	if !f.msgs.anyContains(5, "credited") {
		t.Error("depositor not notified")
	}

	f.press(t, adminID, callback.WithID(callback.KindSettleTx, txID))
	if !strings.Contains(f.msgs.last(adminID), "already settled") {
		t.Errorf("second settle reply = %q", f.msgs.last(adminID))
	}
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opp := &domain.Opportunity{Name: "Staking", Address: "0xabc", Currency: "USDT", MinWithdrawal: decimal.NewFromInt(10)}
	if err := f.store.CreateOpportunity(ctx, opp); err != nil {
		t.Fatal(err)
	}
	f.login(t, 5)
	f.store.SetCryptoBalance(5, "USDT", decimal.NewFromInt(3))

	f.press(t, 5, callback.WithID(callback.KindConfirmWithdraw, opp.ID))
	if got := f.msgs.last(5); !strings.Contains(got, "Insufficient USDT balance") {
		t.Errorf("reply = %q", got)
	}
	if got := f.store.User(5).CryptoBalance("USDT"); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("balance = %s, want 3", got)
	}

	f.store.SetCryptoBalance(5, "USDT", decimal.NewFromInt(25))
	f.press(t, 5, callback.WithID(callback.KindConfirmWithdraw, opp.ID))
	if got := f.msgs.last(5); !strings.Contains(got, "25 USDT has been submitted") {
		t.Errorf("reply = %q", got)
	}
	if !f.store.User(5).CryptoBalance("USDT").IsZero() {
		t.Error("balance not debited")
	}
}
