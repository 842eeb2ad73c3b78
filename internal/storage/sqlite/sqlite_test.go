package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUsers(t *testing.T, store *SQLiteStore, usernames ...string) {
	t.Helper()
	ctx := context.Background()
	for _, u := range usernames {
		err := store.CreateUser(ctx, &models.User{
			Username: u,
			Email:    u + "@example.com",
			FullName: u,
		})
		if err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", u, err)
		}
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		user := &models.User{
			Username:     "alice",
			Email:        "alice@example.com",
			FullName:     "Alice Example",
			PasswordHash: "$2a$10$fakehash",
			ProfileImage: "https://example.com/alice.png",
		}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}

		got, err := store.GetUser(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Email != user.Email || got.FullName != user.FullName || got.PasswordHash != user.PasswordHash {
			t.Errorf("retrieved user differs: %+v", got)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{
			Username: "alice",
			Email:    "alice2@example.com",
			FullName: "Other Alice",
		})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		seedUsers(t, store, "bob")
		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("expected 2 users, got %d", len(users))
		}
	})
}

func TestGroupsAndMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, store, "alice", "bob", "carol")

	group := &models.Group{Name: "Roommates", Description: "The flat", Currency: "EUR"}
	if err := store.CreateGroup(ctx, group, "alice"); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == 0 {
		t.Fatal("expected group ID to be assigned")
	}

	t.Run("creator is owner", func(t *testing.T) {
		ok, err := store.IsOwner(ctx, group.ID, "alice")
		if err != nil {
			t.Fatalf("IsOwner failed: %v", err)
		}
		if !ok {
			t.Error("expected alice to be owner")
		}
	})

	t.Run("membership checks", func(t *testing.T) {
		if err := store.AddMember(ctx, &models.GroupMember{GroupID: group.ID, Username: "bob"}); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		ok, _ := store.IsMember(ctx, group.ID, "bob")
		if !ok {
			t.Error("expected bob to be a member")
		}
		ok, _ = store.IsOwner(ctx, group.ID, "bob")
		if ok {
			t.Error("bob must not be owner")
		}
		ok, _ = store.IsMember(ctx, group.ID, "carol")
		if ok {
			t.Error("carol must not be a member")
		}
	})

	t.Run("duplicate membership", func(t *testing.T) {
		err := store.AddMember(ctx, &models.GroupMember{GroupID: group.ID, Username: "bob"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("list members ordered", func(t *testing.T) {
		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(members))
		}
		if members[0].Username != "alice" || members[1].Username != "bob" {
			t.Errorf("unexpected member order: %s, %s", members[0].Username, members[1].Username)
		}
	})

	t.Run("groups for user", func(t *testing.T) {
		groups, err := store.ListGroupsForUser(ctx, "alice")
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("unexpected groups: %+v", groups)
		}

		groups, err = store.ListGroupsForUser(ctx, "carol")
		if err != nil {
			t.Fatalf("ListGroupsForUser(carol) failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("expected no groups for carol, got %d", len(groups))
		}
	})

	t.Run("remove member", func(t *testing.T) {
		if err := store.RemoveMember(ctx, group.ID, "bob"); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		ok, _ := store.IsMember(ctx, group.ID, "bob")
		if ok {
			t.Error("expected bob to be removed")
		}

		err := store.RemoveMember(ctx, group.ID, "bob")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("default currency", func(t *testing.T) {
		g := &models.Group{Name: "No currency"}
		if err := store.CreateGroup(ctx, g, "alice"); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		got, err := store.GetGroup(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Currency != "USD" {
			t.Errorf("currency = %q, want USD", got.Currency)
		}
	})
}

func TestLedgerAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedUsers(t, store, "alice", "bob")

	group := &models.Group{Name: "Trip"}
	if err := store.CreateGroup(ctx, group, "alice"); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := store.AddMember(ctx, &models.GroupMember{GroupID: group.ID, Username: "bob"}); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	expense := &models.Expense{
		ID:            1,
		GroupID:       group.ID,
		Name:          "Hotel",
		AmountCents:   2000,
		PayerUsername: "alice",
	}
	members := []models.ExpenseMember{
		{GroupID: group.ID, ExpenseID: 1, Username: "alice", AmountCents: 1000},
		{GroupID: group.ID, ExpenseID: 1, Username: "bob", AmountCents: 1000},
	}

	t.Run("append expense round-trip", func(t *testing.T) {
		if err := store.AppendExpense(ctx, expense, members); err != nil {
			t.Fatalf("AppendExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, group.ID, 1)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Name != "Hotel" || got.AmountCents != 2000 || got.PayerUsername != "alice" {
			t.Errorf("retrieved expense differs: %+v", got)
		}

		rows, err := store.ListExpenseMembers(ctx, group.ID, 1)
		if err != nil {
			t.Fatalf("ListExpenseMembers failed: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 split rows, got %d", len(rows))
		}
	})

	t.Run("duplicate expense id is a conflict with no partial write", func(t *testing.T) {
		dup := &models.Expense{
			ID:            1,
			GroupID:       group.ID,
			Name:          "Duplicate",
			AmountCents:   500,
			PayerUsername: "bob",
		}
		err := store.AppendExpense(ctx, dup, []models.ExpenseMember{
			{GroupID: group.ID, ExpenseID: 1, Username: "bob", AmountCents: 500},
		})
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		// The original expense must be untouched.
		got, err := store.GetExpense(ctx, group.ID, 1)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Name != "Hotel" {
			t.Errorf("expense was overwritten: %+v", got)
		}
	})

	t.Run("append and list transactions", func(t *testing.T) {
		tx := &models.Transaction{ID: 1, GroupID: group.ID, Username: "bob", AmountCents: 1000}
		if err := store.AppendTransaction(ctx, tx); err != nil {
			t.Fatalf("AppendTransaction failed: %v", err)
		}

		err := store.AppendTransaction(ctx, &models.Transaction{ID: 1, GroupID: group.ID, Username: "alice", AmountCents: -1})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict on duplicate id, got %v", err)
		}

		txs, err := store.ListTransactions(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].AmountCents != 1000 {
			t.Errorf("unexpected transactions: %+v", txs)
		}
	})

	t.Run("history snapshot contains everything", func(t *testing.T) {
		hist, err := store.GroupHistory(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupHistory failed: %v", err)
		}
		if len(hist.Expenses) != 1 {
			t.Errorf("expected 1 expense in history, got %d", len(hist.Expenses))
		}
		if len(hist.ExpenseMembers) != 2 {
			t.Errorf("expected 2 expense members in history, got %d", len(hist.ExpenseMembers))
		}
		if len(hist.Transactions) != 1 {
			t.Errorf("expected 1 transaction in history, got %d", len(hist.Transactions))
		}
	})

	t.Run("history of another group is empty", func(t *testing.T) {
		other := &models.Group{Name: "Empty"}
		if err := store.CreateGroup(ctx, other, "alice"); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		hist, err := store.GroupHistory(ctx, other.ID)
		if err != nil {
			t.Fatalf("GroupHistory failed: %v", err)
		}
		if len(hist.Expenses) != 0 || len(hist.ExpenseMembers) != 0 || len(hist.Transactions) != 0 {
			t.Errorf("expected empty history, got %+v", hist)
		}
	})
}
