package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"

	"github.com/kevinjqiu/silverstrike/internal/models"
)

// dateLayout is the on-disk date representation.
const dateLayout = "2006-01-02"

// SQLiteStore is the Store implementation backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if necessary) the ledger database at dbPath.
// It enables WAL mode for better concurrency and foreign key constraints,
// and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.WithField("path", dbPath).Debug("Opened ledger database")
	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Accounts returns all accounts.
func (s *SQLiteStore) Accounts() ([]models.Account, error) {
	rows, err := s.db.Query(`SELECT id, name, kind, COALESCE(digest, '') FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.Digest); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreateAccount inserts a and fills in its ID.
func (s *SQLiteStore) CreateAccount(a *models.Account) error {
	res, err := s.db.Exec(
		`INSERT INTO accounts (name, kind, digest) VALUES (?, ?, ?)`,
		a.Name, int(a.Kind), nullString(a.Digest),
	)
	if err != nil {
		return fmt.Errorf("creating account %q: %w", a.Name, err)
	}
	a.ID, err = res.LastInsertId()
	return err
}

// FindAccountByDigest returns the account carrying digest, or ErrNotFound.
func (s *SQLiteStore) FindAccountByDigest(digest string) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRow(
		`SELECT id, name, kind, COALESCE(digest, '') FROM accounts WHERE digest = ?`,
		digest,
	).Scan(&a.ID, &a.Name, &a.Kind, &a.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding account by digest: %w", err)
	}
	return &a, nil
}

// Categories returns all categories.
func (s *SQLiteStore) Categories() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts c and fills in its ID.
func (s *SQLiteStore) CreateCategory(c *models.Category) error {
	res, err := s.db.Exec(`INSERT INTO categories (name) VALUES (?)`, c.Name)
	if err != nil {
		return fmt.Errorf("creating category %q: %w", c.Name, err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// FindTransactionByFITID returns the transaction imported with the given
// external id, or ErrNotFound.
func (s *SQLiteStore) FindTransactionByFITID(fitid string) (*models.Transaction, error) {
	var (
		t       models.Transaction
		dateStr string
	)
	err := s.db.QueryRow(
		`SELECT id, title, date, transaction_type, COALESCE(fitid, ''), notes
		 FROM transactions WHERE fitid = ?`,
		fitid,
	).Scan(&t.ID, &t.Title, &dateStr, &t.Type, &t.FITID, &t.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding transaction by fitid: %w", err)
	}
	t.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
	}
	return &t, nil
}

// InTransaction runs fn inside a database transaction. If fn returns an
// error the transaction is rolled back; otherwise it is committed.
func (s *SQLiteStore) InTransaction(fn func(tx TxStore) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sqliteTx is the TxStore bound to one database transaction.
type sqliteTx struct {
	tx *sql.Tx
}

// CreateTransaction inserts t and fills in its ID.
func (s *sqliteTx) CreateTransaction(t *models.Transaction) error {
	res, err := s.tx.Exec(
		`INSERT INTO transactions (title, date, transaction_type, fitid, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		t.Title, t.Date.Format(dateLayout), int(t.Type), nullString(t.FITID), t.Notes,
	)
	if err != nil {
		return fmt.Errorf("creating transaction %q: %w", t.Title, err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

// CreateSplit inserts s and fills in its ID.
func (s *sqliteTx) CreateSplit(sp *models.Split) error {
	res, err := s.tx.Exec(
		`INSERT INTO splits
		 (transaction_id, account_id, opposing_account_id, title, date, amount, category_id, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.TransactionID, sp.AccountID, sp.OpposingAccountID, sp.Title,
		sp.Date.Format(dateLayout), sp.Amount.String(), nullInt64(sp.CategoryID), sp.Notes,
	)
	if err != nil {
		return fmt.Errorf("creating split on account %d: %w", sp.AccountID, err)
	}
	sp.ID, err = res.LastInsertId()
	return err
}

// BulkCreateSplits inserts all splits in one statement.
func (s *sqliteTx) BulkCreateSplits(splits []*models.Split) error {
	if len(splits) == 0 {
		return nil
	}

	query := `INSERT INTO splits
	 (transaction_id, account_id, opposing_account_id, title, date, amount, category_id, notes)
	 VALUES `
	args := make([]interface{}, 0, len(splits)*8)
	for i, sp := range splits {
		if i > 0 {
			query += ", "
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args,
			sp.TransactionID, sp.AccountID, sp.OpposingAccountID, sp.Title,
			sp.Date.Format(dateLayout), sp.Amount.String(), nullInt64(sp.CategoryID), sp.Notes)
	}

	res, err := s.tx.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("bulk creating %d splits: %w", len(splits), err)
	}

	// SQLite reports the last id of a multi-row insert; ids are assigned
	// sequentially within the statement.
	last, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, sp := range splits {
		sp.ID = last - int64(len(splits)-1-i)
	}
	return nil
}

// SplitsForTransaction returns the splits owned by a transaction.
func (s *SQLiteStore) SplitsForTransaction(transactionID int64) ([]models.Split, error) {
	rows, err := s.db.Query(
		`SELECT id, transaction_id, account_id, opposing_account_id, title, date,
		        amount, COALESCE(category_id, 0), notes
		 FROM splits WHERE transaction_id = ? ORDER BY id`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var (
			sp        models.Split
			dateStr   string
			amountStr string
		)
		if err := rows.Scan(&sp.ID, &sp.TransactionID, &sp.AccountID, &sp.OpposingAccountID,
			&sp.Title, &dateStr, &amountStr, &sp.CategoryID, &sp.Notes); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		if sp.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		if sp.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parsing stored amount %q: %w", amountStr, err)
		}
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
