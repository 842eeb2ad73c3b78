// Package ledger implements the expense ledger, balance computation
// engine, and settlement transaction validator.
//
// Every write executes as one atomically-isolated unit per group: a
// per-group mutex is held across the read-validate-write sequence, and the
// store appends each unit in a single transaction. Store-level conflicts
// are retried a bounded number of times before the operation fails.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xpense/xpense/internal/metrics"
	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// maxConflictRetries bounds re-runs of an atomic unit after a
// storage.ErrConflict before surfacing ErrStoreUnavailable.
const maxConflictRetries = 3

// Ledger validates and commits expenses and settlement transactions, and
// derives balances from the event history.
type Ledger struct {
	store storage.Store
	locks *groupLocks
}

// New creates a Ledger on top of the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{
		store: store,
		locks: newGroupLocks(),
	}
}

// Split is one participant's share of a new expense.
type Split struct {
	Username    string
	AmountCents int64
}

// ExpenseInput describes a new expense to record.
type ExpenseInput struct {
	Name        string
	Description string
	AmountCents int64
	Payer       string
	Splits      []Split
}

// MemberBalanceEntry pairs a member with their derived balance.
type MemberBalanceEntry struct {
	Username     string `json:"username"`
	IsOwner      bool   `json:"is_owner"`
	BalanceCents int64  `json:"balance_cents"`
}

// RecordExpense validates and commits a new expense with its splits as
// one atomic unit. The caller, the payer, and every split participant
// must be members of the group; shares must be non-negative and sum
// exactly to the total.
func (l *Ledger) RecordExpense(ctx context.Context, groupID int64, caller string, in ExpenseInput) (*models.Expense, error) {
	members, err := l.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing members of group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m.Username] = true
	}

	if !memberSet[caller] {
		return nil, fmt.Errorf("%w: %q in group %d", ErrNotAMember, caller, groupID)
	}
	if !memberSet[in.Payer] {
		return nil, fmt.Errorf("%w: payer %q in group %d", ErrNotAMember, in.Payer, groupID)
	}

	if in.AmountCents < 0 {
		return nil, fmt.Errorf("%w: expense total %d", ErrInvalidAmount, in.AmountCents)
	}

	seen := make(map[string]bool, len(in.Splits))
	var sum int64
	for _, s := range in.Splits {
		if !memberSet[s.Username] {
			return nil, fmt.Errorf("%w: participant %q in group %d", ErrNotAMember, s.Username, groupID)
		}
		if seen[s.Username] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSplit, s.Username)
		}
		seen[s.Username] = true
		if s.AmountCents < 0 {
			return nil, fmt.Errorf("%w: share %d for %q", ErrInvalidAmount, s.AmountCents, s.Username)
		}
		sum += s.AmountCents
	}
	if sum != in.AmountCents {
		return nil, fmt.Errorf("%w: shares sum to %d, expense total is %d", ErrSplitMismatch, sum, in.AmountCents)
	}

	unlock := l.locks.acquire(groupID)
	defer unlock()

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		hist, err := l.store.GroupHistory(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading history of group %d: %v", ErrStoreUnavailable, groupID, err)
		}

		expense := &models.Expense{
			ID:            maxExpenseID(hist) + 1,
			GroupID:       groupID,
			Name:          in.Name,
			Description:   in.Description,
			AmountCents:   in.AmountCents,
			PayerUsername: in.Payer,
		}
		rows := make([]models.ExpenseMember, len(in.Splits))
		for i, s := range in.Splits {
			rows[i] = models.ExpenseMember{
				GroupID:     groupID,
				ExpenseID:   expense.ID,
				Username:    s.Username,
				AmountCents: s.AmountCents,
			}
		}

		err = l.store.AppendExpense(ctx, expense, rows)
		if errors.Is(err, storage.ErrConflict) {
			metrics.WriteConflicts.Inc()
			slog.Warn("expense id conflict, retrying", "group_id", groupID, "expense_id", expense.ID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: appending expense to group %d: %v", ErrStoreUnavailable, groupID, err)
		}

		metrics.ExpensesCreated.Inc()
		return expense, nil
	}

	return nil, fmt.Errorf("%w: conflict retries exhausted for group %d", ErrStoreUnavailable, groupID)
}

// ListExpenses returns all expenses of a group; the caller must be a member.
func (l *Ledger) ListExpenses(ctx context.Context, groupID int64, caller string) ([]*models.Expense, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return nil, err
	}
	expenses, err := l.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing expenses of group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	return expenses, nil
}

// GetExpense returns one expense of a group; the caller must be a member.
// Returns storage.ErrNotFound if the expense does not exist.
func (l *Ledger) GetExpense(ctx context.Context, groupID, expenseID int64, caller string) (*models.Expense, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return nil, err
	}
	return l.store.GetExpense(ctx, groupID, expenseID)
}

// ListExpenseMembers returns the split rows of one expense; the caller
// must be a member and the expense must exist.
func (l *Ledger) ListExpenseMembers(ctx context.Context, groupID, expenseID int64, caller string) ([]models.ExpenseMember, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return nil, err
	}
	// Existence check first so a missing expense is a not-found, not an
	// empty list.
	if _, err := l.store.GetExpense(ctx, groupID, expenseID); err != nil {
		return nil, err
	}
	return l.store.ListExpenseMembers(ctx, groupID, expenseID)
}

// RecordTransaction validates and commits a settlement transaction for
// the caller. Withdrawals are capped by both the caller's balance and the
// pool balance; deposits may not exceed what the caller owes.
func (l *Ledger) RecordTransaction(ctx context.Context, groupID int64, caller string, amountCents int64) (*models.Transaction, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return nil, err
	}
	if amountCents == 0 {
		return nil, ErrZeroAmount
	}

	unlock := l.locks.acquire(groupID)
	defer unlock()

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		hist, err := l.store.GroupHistory(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("%w: reading history of group %d: %v", ErrStoreUnavailable, groupID, err)
		}

		member := memberBalance(hist, caller)
		pool := poolBalance(hist)

		if amountCents < 0 {
			// Withdrawal: the member draws down what they are owed.
			if member+amountCents < 0 {
				return nil, fmt.Errorf("%w: balance %d, withdrawal %d", ErrInsufficientMemberBalance, member, amountCents)
			}
			if pool+amountCents < 0 {
				return nil, fmt.Errorf("%w: pool %d, withdrawal %d", ErrInsufficientPoolBalance, pool, amountCents)
			}
		} else {
			// Deposit: the member pays down debt, never builds surplus.
			if member+amountCents > 0 {
				return nil, fmt.Errorf("%w: balance %d, deposit %d", ErrOverpaymentNotAllowed, member, amountCents)
			}
		}

		tx := &models.Transaction{
			ID:          maxTransactionID(hist) + 1,
			GroupID:     groupID,
			Username:    caller,
			AmountCents: amountCents,
		}

		err = l.store.AppendTransaction(ctx, tx)
		if errors.Is(err, storage.ErrConflict) {
			metrics.WriteConflicts.Inc()
			slog.Warn("transaction id conflict, retrying", "group_id", groupID, "transaction_id", tx.ID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: appending transaction to group %d: %v", ErrStoreUnavailable, groupID, err)
		}

		metrics.TransactionsCreated.Inc()
		return tx, nil
	}

	return nil, fmt.Errorf("%w: conflict retries exhausted for group %d", ErrStoreUnavailable, groupID)
}

// ListTransactions returns all transactions of a group; the caller must
// be a member.
func (l *Ledger) ListTransactions(ctx context.Context, groupID int64, caller string) ([]*models.Transaction, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return nil, err
	}
	txs, err := l.store.ListTransactions(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing transactions of group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	return txs, nil
}

// MemberBalance derives the current balance of a group member from the
// event history. Both the caller and the queried member must belong to
// the group.
func (l *Ledger) MemberBalance(ctx context.Context, groupID int64, caller, username string) (int64, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return 0, err
	}
	if username != caller {
		if err := l.requireMember(ctx, groupID, username); err != nil {
			return 0, err
		}
	}

	hist, err := l.store.GroupHistory(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("%w: reading history of group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	return memberBalance(hist, username), nil
}

// GroupPoolBalance derives the net money held in the group's settlement
// pool; the caller must be a member.
func (l *Ledger) GroupPoolBalance(ctx context.Context, groupID int64, caller string) (int64, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return 0, err
	}
	hist, err := l.store.GroupHistory(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("%w: reading history of group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	return poolBalance(hist), nil
}

// GroupBalances derives the balance of every current member from one
// history snapshot; the caller must be a member.
func (l *Ledger) GroupBalances(ctx context.Context, groupID int64, caller string) ([]MemberBalanceEntry, error) {
	if err := l.requireMember(ctx, groupID, caller); err != nil {
		return nil, err
	}
	members, err := l.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing members of group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	hist, err := l.store.GroupHistory(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading history of group %d: %v", ErrStoreUnavailable, groupID, err)
	}

	entries := make([]MemberBalanceEntry, len(members))
	for i, m := range members {
		entries[i] = MemberBalanceEntry{
			Username:     m.Username,
			IsOwner:      m.IsOwner,
			BalanceCents: memberBalance(hist, m.Username),
		}
	}
	return entries, nil
}

func (l *Ledger) requireMember(ctx context.Context, groupID int64, username string) error {
	ok, err := l.store.IsMember(ctx, groupID, username)
	if err != nil {
		return fmt.Errorf("%w: checking membership in group %d: %v", ErrStoreUnavailable, groupID, err)
	}
	if !ok {
		return fmt.Errorf("%w: %q in group %d", ErrNotAMember, username, groupID)
	}
	return nil
}
