package models

// Group represents a set of users sharing expenses and settling balances
// against a common pool.
type Group struct {
	// ID is the store-assigned identifier for the group.
	ID int64 `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// Currency is the ISO 4217 code all amounts in this group are
	// denominated in. Fixed for the lifetime of the group.
	Currency string `json:"currency"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// GroupMember links a user to a group. The owner flag grants administrative
// rights over membership only; it carries no ledger privileges.
type GroupMember struct {
	GroupID  int64  `json:"group_id"`
	Username string `json:"username"`
	IsOwner  bool   `json:"is_owner"`

	// JoinedAt is the Unix timestamp when the user joined the group.
	JoinedAt int64 `json:"joined_at"`
}
