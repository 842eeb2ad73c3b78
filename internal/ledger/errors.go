package ledger

import "errors"

// Validation and policy errors surfaced to callers. All of them are
// detected before any write, so a failed operation leaves no side effect.
var (
	// ErrNotAMember means the caller, payer, or a referenced participant
	// is not a member of the group.
	ErrNotAMember = errors.New("not a member of this group")

	// ErrSplitMismatch means an expense's split shares do not sum to its
	// total amount.
	ErrSplitMismatch = errors.New("expense amount is not equal to the sum of the member shares")

	// ErrInvalidAmount means a negative total or share amount.
	ErrInvalidAmount = errors.New("amount must not be negative")

	// ErrDuplicateSplit means the same username appears twice in an
	// expense's splits.
	ErrDuplicateSplit = errors.New("duplicate username in expense splits")

	// ErrZeroAmount means a settlement of zero was requested.
	ErrZeroAmount = errors.New("cannot record a transaction of 0")

	// ErrInsufficientMemberBalance means a withdrawal exceeds what the
	// pool owes the member.
	ErrInsufficientMemberBalance = errors.New("cannot withdraw more than your balance")

	// ErrInsufficientPoolBalance means a withdrawal exceeds what the
	// pool currently holds.
	ErrInsufficientPoolBalance = errors.New("cannot withdraw more than the group balance")

	// ErrOverpaymentNotAllowed means a deposit exceeds what the member
	// currently owes.
	ErrOverpaymentNotAllowed = errors.New("cannot deposit more than what you owe")

	// ErrStoreUnavailable means the persistence dependency failed, or
	// conflict retries were exhausted. The request may be retried.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)
