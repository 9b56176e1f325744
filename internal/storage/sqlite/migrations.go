package sqlite

import "database/sql"

// schema runs on startup to ensure tables exist. Amounts are stored as
// decimal text so nothing passes through a float.
// Users and groups must be created before the tables that reference them.
// Categories are a fixed list seeded here; ids are small numbers so they are
// easy to pass on the command line.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    category_id TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL,
    split_type TEXT NOT NULL,
    amount TEXT NOT NULL,
    paid_by TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_shares (
    expense_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    amount_owed TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (expense_id, user_id),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    position INTEGER NOT NULL
);

INSERT OR IGNORE INTO categories (id, name, position) VALUES
    ('1', 'Food', 1),
    ('2', 'Groceries', 2),
    ('3', 'Transport', 3),
    ('4', 'Rent', 4),
    ('5', 'Utilities', 5),
    ('6', 'Entertainment', 6),
    ('7', 'Travel', 7),
    ('8', 'Shopping', 8),
    ('9', 'Health', 9),
    ('10', 'Other', 10);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email != '';
CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_expense_shares_expense_id ON expense_shares(expense_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
