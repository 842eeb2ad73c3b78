package ledger

import "github.com/xpense/xpense/internal/models"

// The balance engine is a pure fold over a group's immutable history.
// Balances are never stored, so they can never drift from the records.

// memberBalance derives a member's net standing versus the group pool:
//
//	Σ expense totals they paid − Σ their split shares + Σ their transactions
//
// Positive means the pool owes the member; negative means the member owes
// the pool.
func memberBalance(h *models.GroupHistory, username string) int64 {
	var balance int64
	for _, e := range h.Expenses {
		if e.PayerUsername == username {
			balance += e.AmountCents
		}
	}
	for _, m := range h.ExpenseMembers {
		if m.Username == username {
			balance -= m.AmountCents
		}
	}
	for _, t := range h.Transactions {
		if t.Username == username {
			balance += t.AmountCents
		}
	}
	return balance
}

// poolBalance derives the net money currently held in the shared
// settlement pool: the sum of all transactions, independent of expense
// splits.
func poolBalance(h *models.GroupHistory) int64 {
	var balance int64
	for _, t := range h.Transactions {
		balance += t.AmountCents
	}
	return balance
}

// maxExpenseID returns the highest expense id in the history, or 0.
func maxExpenseID(h *models.GroupHistory) int64 {
	var max int64
	for _, e := range h.Expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}

// maxTransactionID returns the highest transaction id in the history, or 0.
func maxTransactionID(h *models.GroupHistory) int64 {
	var max int64
	for _, t := range h.Transactions {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}
