package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/set-night/earnhub/internal/domain"
	"github.com/shopspring/decimal"
)

type transactionHandler struct {
	ledger    Ledger
	onSettled func(ctx context.Context, tx *domain.Transaction)
}

type transactionView struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	OpportunityID *int64          `json:"opportunity_id,omitempty"`
	Type          domain.TxType   `json:"type"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Status        domain.TxStatus `json:"status"`
	Memo          string          `json:"memo"`
	Reference     string          `json:"reference"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func viewOf(t *domain.Transaction) transactionView {
	return transactionView{
		ID:            t.ID,
		UserID:        t.UserID,
		OpportunityID: t.OpportunityID,
		Type:          t.Type,
		Currency:      t.Currency,
		Amount:        t.Amount,
		Status:        t.Status,
		Memo:          t.Memo,
		Reference:     t.Reference,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

// list handles GET /api/transactions?status=pending&page=0.
func (h *transactionHandler) list(c *gin.Context) {
	if status := c.DefaultQuery("status", string(domain.TxStatusPending)); status != string(domain.TxStatusPending) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only status=pending is supported"})
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a non-negative integer"})
		return
	}

	txs, err := h.ledger.PendingTransactions(c.Request.Context(), page)
	if err != nil {
		slog.Error("list transactions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	views := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		views = append(views, viewOf(t))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": views, "page": page})
}

type settleRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// settle handles POST /api/transactions/:id/settle. The body may be empty
// for withdrawals.
func (h *transactionHandler) settle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	tx, err := h.ledger.Settle(c.Request.Context(), id, req.Amount)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrAlreadySettled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than zero"})
		return
	default:
		slog.Error("settle transaction", "error", err, "tx_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slog.Info("transaction settled via api", "tx_id", tx.ID, "subject", c.GetString("subject"))
	if h.onSettled != nil {
		h.onSettled(c.Request.Context(), tx)
	}
	c.JSON(http.StatusOK, viewOf(tx))
}
