package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Expense and transaction ids are sequential PER GROUP, so both tables use
// a composite (group_id, id) primary key. The unique constraint is what
// turns a lost id race into a storage.ErrConflict instead of a duplicate.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    username TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    profile_image TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    currency TEXT NOT NULL DEFAULT 'USD',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id INTEGER NOT NULL,
    username TEXT NOT NULL,
    is_owner INTEGER NOT NULL DEFAULT 0,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, username),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (username) REFERENCES users(username)
);

CREATE TABLE IF NOT EXISTS expenses (
    group_id INTEGER NOT NULL,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount_cents INTEGER NOT NULL,
    payer_username TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, id),
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE TABLE IF NOT EXISTS expense_members (
    group_id INTEGER NOT NULL,
    expense_id INTEGER NOT NULL,
    username TEXT NOT NULL,
    amount_cents INTEGER NOT NULL,
    PRIMARY KEY (group_id, expense_id, username),
    FOREIGN KEY (group_id, expense_id) REFERENCES expenses(group_id, id)
);

CREATE TABLE IF NOT EXISTS transactions (
    group_id INTEGER NOT NULL,
    id INTEGER NOT NULL,
    username TEXT NOT NULL,
    amount_cents INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, id),
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE INDEX IF NOT EXISTS idx_group_members_username ON group_members(username);
CREATE INDEX IF NOT EXISTS idx_expense_members_expense ON expense_members(group_id, expense_id);
CREATE INDEX IF NOT EXISTS idx_transactions_username ON transactions(group_id, username);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
