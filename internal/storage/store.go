// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/xpense/xpense/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an append collides with a concurrent write
// (e.g. two writers computed the same sequential id). The ledger retries
// the whole read-validate-write unit when it sees this.
var ErrConflict = errors.New("write conflict")

// ErrAlreadyExists is returned when a unique record (user, membership)
// is created twice.
var ErrAlreadyExists = errors.New("record already exists")

// Store defines the persistence contract for Xpense.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the ledger or service layers.
//
// Ledger appends must be atomic: either every record in the call is
// durably written or none are. GroupHistory must observe a single
// consistent snapshot of a group's records.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by username.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// ListUsers retrieves all registered users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a new group and its owning member as one
	// atomic unit. The group's ID field is populated by the store.
	CreateGroup(ctx context.Context, group *models.Group, owner string) error

	// GetGroup retrieves a group by id.
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)

	// ListGroupsForUser retrieves every group the user is a member of.
	ListGroupsForUser(ctx context.Context, username string) ([]*models.Group, error)

	// AddMember adds a user to a group.
	AddMember(ctx context.Context, member *models.GroupMember) error

	// RemoveMember removes a user from a group.
	RemoveMember(ctx context.Context, groupID int64, username string) error

	// ListMembers enumerates a group's membership.
	ListMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error)

	// IsMember reports whether the user is currently a member of the group.
	IsMember(ctx context.Context, groupID int64, username string) (bool, error)

	// IsOwner reports whether the user is an owner of the group.
	IsOwner(ctx context.Context, groupID int64, username string) (bool, error)

	// GroupHistory reads a group's full ledger history in one snapshot.
	GroupHistory(ctx context.Context, groupID int64) (*models.GroupHistory, error)

	// AppendExpense atomically appends an expense and its split rows.
	// Returns ErrConflict if the expense id was taken by a concurrent writer.
	AppendExpense(ctx context.Context, expense *models.Expense, members []models.ExpenseMember) error

	// GetExpense retrieves one expense of a group.
	GetExpense(ctx context.Context, groupID, expenseID int64) (*models.Expense, error)

	// ListExpenses retrieves all expenses of a group, ordered by id.
	ListExpenses(ctx context.Context, groupID int64) ([]*models.Expense, error)

	// ListExpenseMembers retrieves the split rows of one expense.
	ListExpenseMembers(ctx context.Context, groupID, expenseID int64) ([]models.ExpenseMember, error)

	// AppendTransaction appends a settlement transaction.
	// Returns ErrConflict if the transaction id was taken by a concurrent writer.
	AppendTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions retrieves all transactions of a group, ordered by id.
	ListTransactions(ctx context.Context, groupID int64) ([]*models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
