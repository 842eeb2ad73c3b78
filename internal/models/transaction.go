package models

// Transaction is a settlement entry that moves a member's balance toward
// zero without being tied to a specific expense. Positive amounts pay into
// the pool (reducing debt); negative amounts withdraw from it (reducing
// credit). Immutable once created.
type Transaction struct {
	// ID is sequential per group, starting at 1.
	ID int64 `json:"id"`

	// GroupID is the group that owns this transaction.
	GroupID int64 `json:"group_id"`

	// Username is the member whose balance this settles.
	Username string `json:"username"`

	// AmountCents is the signed settlement amount in minor currency units.
	AmountCents int64 `json:"amount_cents"`

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64 `json:"created_at"`
}
