package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// GroupHistory reads a group's full ledger history inside one database
// transaction, so the balance engine always folds over a single
// consistent snapshot.
func (s *SQLiteStore) GroupHistory(ctx context.Context, groupID int64) (*models.GroupHistory, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot read: %w", err)
	}
	defer tx.Rollback()

	hist := &models.GroupHistory{}

	rows, err := tx.QueryContext(ctx, `
		SELECT group_id, id, name, description, amount_cents, payer_username, created_at
		FROM expenses WHERE group_id = ? ORDER BY id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.GroupID, &e.ID, &e.Name, &e.Description, &e.AmountCents, &e.PayerUsername, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		hist.Expenses = append(hist.Expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	rows, err = tx.QueryContext(ctx, `
		SELECT group_id, expense_id, username, amount_cents
		FROM expense_members WHERE group_id = ? ORDER BY expense_id, username
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read expense members: %w", err)
	}
	for rows.Next() {
		var m models.ExpenseMember
		if err := rows.Scan(&m.GroupID, &m.ExpenseID, &m.Username, &m.AmountCents); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense member: %w", err)
		}
		hist.ExpenseMembers = append(hist.ExpenseMembers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense members: %w", err)
	}

	rows, err = tx.QueryContext(ctx, `
		SELECT group_id, id, username, amount_cents, created_at
		FROM transactions WHERE group_id = ? ORDER BY id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.GroupID, &t.ID, &t.Username, &t.AmountCents, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		hist.Transactions = append(hist.Transactions, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to finish snapshot read: %w", err)
	}

	return hist, nil
}

// AppendExpense atomically appends an expense and its split rows.
// A duplicate (group_id, id) insert from a concurrent writer surfaces as
// storage.ErrConflict and nothing is persisted.
func (s *SQLiteStore) AppendExpense(ctx context.Context, expense *models.Expense, members []models.ExpenseMember) error {
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (group_id, id, name, description, amount_cents, payer_username, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, expense.GroupID, expense.ID, expense.Name, expense.Description,
		expense.AmountCents, expense.PayerUsername, expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", mapWriteErr(err, storage.ErrConflict))
	}

	for _, m := range members {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO expense_members (group_id, expense_id, username, amount_cents)
			VALUES (?, ?, ?, ?)
		`, expense.GroupID, expense.ID, m.Username, m.AmountCents)
		if err != nil {
			return fmt.Errorf("failed to insert expense member: %w", mapWriteErr(err, storage.ErrConflict))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves one expense of a group.
func (s *SQLiteStore) GetExpense(ctx context.Context, groupID, expenseID int64) (*models.Expense, error) {
	e := &models.Expense{}
	err := s.db.QueryRowContext(ctx, `
		SELECT group_id, id, name, description, amount_cents, payer_username, created_at
		FROM expenses WHERE group_id = ? AND id = ?
	`, groupID, expenseID).Scan(
		&e.GroupID, &e.ID, &e.Name, &e.Description, &e.AmountCents, &e.PayerUsername, &e.CreatedAt,
	)

	if isNoRows(err) {
		return nil, fmt.Errorf("expense %d of group %d: %w", expenseID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListExpenses retrieves all expenses of a group, ordered by id.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, id, name, description, amount_cents, payer_username, created_at
		FROM expenses WHERE group_id = ? ORDER BY id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.GroupID, &e.ID, &e.Name, &e.Description, &e.AmountCents, &e.PayerUsername, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListExpenseMembers retrieves the split rows of one expense.
func (s *SQLiteStore) ListExpenseMembers(ctx context.Context, groupID, expenseID int64) ([]models.ExpenseMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, expense_id, username, amount_cents
		FROM expense_members WHERE group_id = ? AND expense_id = ? ORDER BY username
	`, groupID, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense members: %w", err)
	}
	defer rows.Close()

	var members []models.ExpenseMember
	for rows.Next() {
		var m models.ExpenseMember
		if err := rows.Scan(&m.GroupID, &m.ExpenseID, &m.Username, &m.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to scan expense member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense members: %w", err)
	}

	return members, nil
}

// AppendTransaction appends a settlement transaction.
// A duplicate (group_id, id) insert surfaces as storage.ErrConflict.
func (s *SQLiteStore) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (group_id, id, username, amount_cents, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.GroupID, t.ID, t.Username, t.AmountCents, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", mapWriteErr(err, storage.ErrConflict))
	}

	return nil
}

// ListTransactions retrieves all transactions of a group, ordered by id.
func (s *SQLiteStore) ListTransactions(ctx context.Context, groupID int64) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, id, username, amount_cents, created_at
		FROM transactions WHERE group_id = ? ORDER BY id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		if err := rows.Scan(&t.GroupID, &t.ID, &t.Username, &t.AmountCents, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}
