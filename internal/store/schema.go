package store

// Schema defines the SQL statements to create the ledger tables.
//
// Splits reference their owning transaction with ON DELETE CASCADE: a
// transaction exclusively owns its two splits, so deleting it deletes both.
// Accounts and categories are shared reference data and carry no cascade.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    kind INTEGER NOT NULL,
    digest TEXT UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_accounts_kind_name
    ON accounts(kind, name);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    date TEXT NOT NULL,                -- YYYY-MM-DD
    transaction_type INTEGER NOT NULL,
    fitid TEXT,                        -- external id, NULL for CSV/Firefly rows
    notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_fitid
    ON transactions(fitid);

CREATE TABLE IF NOT EXISTS splits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    transaction_id INTEGER NOT NULL
        REFERENCES transactions(id) ON DELETE CASCADE,
    account_id INTEGER NOT NULL REFERENCES accounts(id),
    opposing_account_id INTEGER NOT NULL REFERENCES accounts(id),
    title TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,                -- YYYY-MM-DD
    amount TEXT NOT NULL,              -- decimal string
    category_id INTEGER REFERENCES categories(id),
    notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_splits_transaction
    ON splits(transaction_id);

CREATE INDEX IF NOT EXISTS idx_splits_account
    ON splits(account_id);
`
