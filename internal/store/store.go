// Package store provides persistence for the ledger consumed by the
// importers. The importers only ever read and write through the Store
// interface; account and category screens live elsewhere.
package store

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/models"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ErrNotFound is returned by Find* methods when no row matches.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface consumed by the importers.
//
// Account and category creation is an unconditional durable write: it is not
// part of any enclosing transaction, so an account created while resolving a
// record that later fails to write is not rolled back.
type Store interface {
	// Accounts returns all accounts, used to build the resolver caches in
	// one pass at the start of an import run.
	Accounts() ([]models.Account, error)

	// CreateAccount inserts a and fills in its ID.
	CreateAccount(a *models.Account) error

	// FindAccountByDigest returns the personal account carrying digest, or
	// ErrNotFound.
	FindAccountByDigest(digest string) (*models.Account, error)

	// Categories returns all categories.
	Categories() ([]models.Category, error)

	// CreateCategory inserts c and fills in its ID.
	CreateCategory(c *models.Category) error

	// FindTransactionByFITID returns the transaction imported with the given
	// external id, or ErrNotFound.
	FindTransactionByFITID(fitid string) (*models.Transaction, error)

	// InTransaction runs fn inside a single atomic unit. If fn returns an
	// error every write made through the TxStore is rolled back. This is the
	// one mandatory transactional boundary: a transaction and its two splits
	// persist together or not at all.
	InTransaction(fn func(tx TxStore) error) error
}

// TxStore is the write surface available inside InTransaction.
type TxStore interface {
	// CreateTransaction inserts t and fills in its ID.
	CreateTransaction(t *models.Transaction) error

	// CreateSplit inserts s and fills in its ID.
	CreateSplit(s *models.Split) error

	// BulkCreateSplits inserts all splits in one round-trip.
	BulkCreateSplits(splits []*models.Split) error
}
