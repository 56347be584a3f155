package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/set-night/earnhub/internal/config"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/set-night/earnhub/internal/service"
	"github.com/set-night/earnhub/internal/storetest"
	"github.com/shopspring/decimal"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	router  http.Handler
	store   *storetest.Store
	ledger  *service.LedgerService
	opp     *domain.Opportunity
	settled []*domain.Transaction
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := storetest.New()
	settings := service.NewSettingsService(store, &config.Config{})
	f := &apiFixture{store: store, ledger: service.NewLedgerService(store, nil, settings)}

	f.opp = &domain.Opportunity{Name: "Staking", Address: "0xabc", Currency: "USDT"}
	if err := store.CreateOpportunity(context.Background(), f.opp); err != nil {
		t.Fatal(err)
	}
	store.AddUser(7, 0)

	f.router = NewRouter(Deps{
		Ledger: f.ledger,
		Secret: secret,
		OnSettled: func(_ context.Context, tx *domain.Transaction) {
			f.settled = append(f.settled, tx)
		},
	})
	return f
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := IssueToken(secret, "ops", role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (f *apiFixture) do(t *testing.T, method, path, tok, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)
	if w := f.do(t, http.MethodGet, "/healthz", "", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestAPIAuth(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name string
		tok  string
		want int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not.a.jwt", http.StatusUnauthorized},
		{"wrong role", token(t, "viewer"), http.StatusForbidden},
		{"admin", token(t, RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := f.do(t, http.MethodGet, "/api/transactions", tt.tok, ""); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAPIRejectsForeignSignature(t *testing.T) {
	f := newAPIFixture(t)
	tok, err := IssueToken("other-secret", "ops", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if w := f.do(t, http.MethodGet, "/api/transactions", tok, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAPIDisabledWithoutSecret(t *testing.T) {
	r := NewRouter(Deps{})
	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListAndSettleDeposit(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()
	tx, _, err := f.ledger.RecordDeposit(ctx, 7, f.opp.ID)
	if err != nil {
		t.Fatal(err)
	}
	admin := token(t, RoleAdmin)

	w := f.do(t, http.MethodGet, "/api/transactions?status=pending", admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list struct {
		Transactions []transactionView `json:"transactions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Transactions) != 1 || list.Transactions[0].ID != tx.ID {
		t.Fatalf("listed = %+v", list.Transactions)
	}

	path := "/api/transactions/" + strconv.FormatInt(tx.ID, 10) + "/settle"
	if w := f.do(t, http.MethodPost, path, admin, `{"amount":"0"}`); w.Code != http.StatusBadRequest {
		t.Errorf("zero amount status = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodPost, path, admin, `{"amount":"12.5"}`); w.Code != http.StatusOK {
		t.Fatalf("settle status = %d: %s", w.Code, w.Body.String())
	}
	if got := f.store.User(7).CryptoBalance("USDT"); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("credited = %s", got)
	}
	if len(f.settled) != 1 {
		t.Errorf("OnSettled calls = %d, want 1", len(f.settled))
	}
	if w := f.do(t, http.MethodPost, path, admin, `{"amount":"1"}`); w.Code != http.StatusConflict {
		t.Errorf("second settle status = %d, want 409", w.Code)
	}
}

func TestSettleErrors(t *testing.T) {
	f := newAPIFixture(t)
	admin := token(t, RoleAdmin)

	if w := f.do(t, http.MethodPost, "/api/transactions/999/settle", admin, `{"amount":"1"}`); w.Code != http.StatusNotFound {
		t.Errorf("missing tx status = %d, want 404", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/transactions/abc/settle", admin, `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/transactions?status=completed", admin, ""); w.Code != http.StatusBadRequest {
		t.Errorf("unsupported status = %d, want 400", w.Code)
	}
}
