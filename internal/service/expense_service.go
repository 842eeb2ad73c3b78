package service

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xpense/xpense/internal/ledger"
	"github.com/xpense/xpense/internal/middleware"
)

// ExpenseService handles expense endpoints on top of the ledger.
type ExpenseService struct {
	ledger *ledger.Ledger
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

type expenseMemberRequest struct {
	Username    string `json:"username" binding:"required"`
	AmountCents int64  `json:"amount_cents"`
}

type createExpenseRequest struct {
	Name          string                 `json:"name" binding:"required"`
	Description   string                 `json:"description"`
	AmountCents   int64                  `json:"amount_cents"`
	PayerUsername string                 `json:"payer_username" binding:"required"`
	Members       []expenseMemberRequest `json:"members" binding:"required"`
}

// Create records a new expense with its splits.
func (s *ExpenseService) Create(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	splits := make([]ledger.Split, len(req.Members))
	for i, m := range req.Members {
		splits[i] = ledger.Split{Username: m.Username, AmountCents: m.AmountCents}
	}

	expense, err := s.ledger.RecordExpense(c.Request.Context(), id, caller, ledger.ExpenseInput{
		Name:        req.Name,
		Description: req.Description,
		AmountCents: req.AmountCents,
		Payer:       req.PayerUsername,
		Splits:      splits,
	})
	if err != nil {
		slog.Warn("RecordExpense rejected", "group_id", id, "caller", caller, "error", err)
		writeError(c, err)
		return
	}

	slog.Info("Expense recorded",
		"group_id", id,
		"expense_id", expense.ID,
		"amount_cents", expense.AmountCents,
		"payer", expense.PayerUsername,
	)
	c.JSON(http.StatusCreated, expense)
}

// List returns all expenses of a group.
func (s *ExpenseService) List(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	expenses, err := s.ledger.ListExpenses(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Get returns one expense of a group.
func (s *ExpenseService) Get(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	expenseID, ok := expenseIDParam(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	expense, err := s.ledger.GetExpense(c.Request.Context(), id, expenseID, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Members returns the split rows of one expense.
func (s *ExpenseService) Members(c *gin.Context) {
	id, ok := groupID(c)
	if !ok {
		return
	}
	expenseID, ok := expenseIDParam(c)
	if !ok {
		return
	}
	caller := middleware.Username(c)

	members, err := s.ledger.ListExpenseMembers(c.Request.Context(), id, expenseID, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func expenseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("expense_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return 0, false
	}
	return id, true
}
