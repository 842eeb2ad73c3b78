package service

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xpense/xpense/internal/ledger"
	"github.com/xpense/xpense/internal/middleware"
)

// TransactionService handles settlement transaction endpoints.
type TransactionService struct {
	ledger *ledger.Ledger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(l *ledger.Ledger) *TransactionService {
	return &TransactionService{ledger: l}
}

// No "required" binding on the amount: a zero amount must reach the
// ledger so it is rejected as ErrZeroAmount, not as a bind failure.
type createTransactionRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

// Create records a settlement transaction for the caller's own balance.
func (s *TransactionService) Create(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := s.ledger.RecordTransaction(c.Request.Context(), id, caller, req.AmountCents)
	if err != nil {
		slog.Warn("RecordTransaction rejected", "group_id", id, "caller", caller, "amount_cents", req.AmountCents, "error", err)
		writeError(c, err)
		return
	}

	slog.Info("Transaction recorded",
		"group_id", id,
		"transaction_id", tx.ID,
		"username", tx.Username,
		"amount_cents", tx.AmountCents,
	)
	c.JSON(http.StatusCreated, tx)
}

// List returns all transactions of a group.
func (s *TransactionService) List(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	txs, err := s.ledger.ListTransactions(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}
