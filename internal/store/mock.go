package store

import (
	"fmt"
	"strings"

	"github.com/kevinjqiu/silverstrike/internal/models"
)

// MemoryStore is an in-memory Store used by tests. InTransaction keeps the
// same atomicity contract as the SQLite store: writes made by a failing fn
// are discarded.
type MemoryStore struct {
	AccountRows     []models.Account
	CategoryRows    []models.Category
	TransactionRows []models.Transaction
	SplitRows       []models.Split

	// FailSplitsAfter makes split writes fail once the given number of
	// splits exist, simulating a per-record write failure mid-import.
	// Zero disables injection.
	FailSplitsAfter int

	// FailSplitTitle makes any split whose title contains this substring
	// fail to write. Empty disables injection.
	FailSplitTitle string

	nextAccountID     int64
	nextCategoryID    int64
	nextTransactionID int64
	nextSplitID       int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Accounts returns all accounts.
func (m *MemoryStore) Accounts() ([]models.Account, error) {
	out := make([]models.Account, len(m.AccountRows))
	copy(out, m.AccountRows)
	return out, nil
}

// CreateAccount inserts a and fills in its ID.
func (m *MemoryStore) CreateAccount(a *models.Account) error {
	m.nextAccountID++
	a.ID = m.nextAccountID
	m.AccountRows = append(m.AccountRows, *a)
	return nil
}

// FindAccountByDigest returns the account carrying digest, or ErrNotFound.
func (m *MemoryStore) FindAccountByDigest(digest string) (*models.Account, error) {
	for _, a := range m.AccountRows {
		if a.Digest != "" && a.Digest == digest {
			found := a
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Categories returns all categories.
func (m *MemoryStore) Categories() ([]models.Category, error) {
	out := make([]models.Category, len(m.CategoryRows))
	copy(out, m.CategoryRows)
	return out, nil
}

// CreateCategory inserts c and fills in its ID.
func (m *MemoryStore) CreateCategory(c *models.Category) error {
	m.nextCategoryID++
	c.ID = m.nextCategoryID
	m.CategoryRows = append(m.CategoryRows, *c)
	return nil
}

// FindTransactionByFITID returns the transaction with the given external id,
// or ErrNotFound.
func (m *MemoryStore) FindTransactionByFITID(fitid string) (*models.Transaction, error) {
	for _, t := range m.TransactionRows {
		if t.FITID != "" && t.FITID == fitid {
			found := t
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// InTransaction runs fn against the store and restores the previous
// transaction and split state if fn fails.
func (m *MemoryStore) InTransaction(fn func(tx TxStore) error) error {
	txSnapshot := make([]models.Transaction, len(m.TransactionRows))
	copy(txSnapshot, m.TransactionRows)
	splitSnapshot := make([]models.Split, len(m.SplitRows))
	copy(splitSnapshot, m.SplitRows)
	nextTx, nextSplit := m.nextTransactionID, m.nextSplitID

	if err := fn(&memoryTx{store: m}); err != nil {
		m.TransactionRows = txSnapshot
		m.SplitRows = splitSnapshot
		m.nextTransactionID, m.nextSplitID = nextTx, nextSplit
		return err
	}
	return nil
}

// SplitsForTransaction returns the splits owned by a transaction.
func (m *MemoryStore) SplitsForTransaction(transactionID int64) []models.Split {
	var out []models.Split
	for _, s := range m.SplitRows {
		if s.TransactionID == transactionID {
			out = append(out, s)
		}
	}
	return out
}

type memoryTx struct {
	store *MemoryStore
}

func (m *memoryTx) CreateTransaction(t *models.Transaction) error {
	m.store.nextTransactionID++
	t.ID = m.store.nextTransactionID
	m.store.TransactionRows = append(m.store.TransactionRows, *t)
	return nil
}

func (m *memoryTx) CreateSplit(s *models.Split) error {
	if m.store.FailSplitsAfter > 0 && len(m.store.SplitRows) >= m.store.FailSplitsAfter {
		return fmt.Errorf("injected split write failure")
	}
	if m.store.FailSplitTitle != "" && strings.Contains(s.Title, m.store.FailSplitTitle) {
		return fmt.Errorf("injected split write failure for %q", s.Title)
	}
	m.store.nextSplitID++
	s.ID = m.store.nextSplitID
	m.store.SplitRows = append(m.store.SplitRows, *s)
	return nil
}

func (m *memoryTx) BulkCreateSplits(splits []*models.Split) error {
	for _, s := range splits {
		if err := m.CreateSplit(s); err != nil {
			return err
		}
	}
	return nil
}
