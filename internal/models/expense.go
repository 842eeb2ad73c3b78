package models

// Expense represents a shared cost paid by one member on behalf of the
// group. Immutable once created.
type Expense struct {
	// ID is sequential per group, starting at 1.
	ID int64 `json:"id"`

	// GroupID is the group that owns this expense.
	GroupID int64 `json:"group_id"`

	// Name is a short label for the expense (e.g., "Groceries").
	Name string `json:"name"`

	// Description is an optional longer note.
	Description string `json:"description,omitempty"`

	// AmountCents is the total cost in minor currency units.
	AmountCents int64 `json:"amount_cents"`

	// PayerUsername is the member who fronted the full amount.
	PayerUsername string `json:"payer_username"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}

// ExpenseMember is one participant's share of an expense's split.
// The shares of an expense always sum exactly to its AmountCents.
// Immutable once created.
type ExpenseMember struct {
	GroupID   int64  `json:"group_id"`
	ExpenseID int64  `json:"expense_id"`
	Username  string `json:"username"`

	// AmountCents is this member's share, >= 0. A zero share records
	// participation without cost.
	AmountCents int64 `json:"amount_cents"`
}

// GroupHistory is a single consistent snapshot of a group's full ledger
// history, as read by the balance engine.
type GroupHistory struct {
	Expenses       []Expense
	ExpenseMembers []ExpenseMember
	Transactions   []Transaction
}
