// Package ledger creates balanced double-entry transactions.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/models"
	"github.com/kevinjqiu/silverstrike/internal/store"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Builder creates one transaction and its two balancing splits per call.
type Builder struct {
	store store.Store
}

// NewBuilder creates a Builder writing through the given store.
func NewBuilder(s store.Store) *Builder {
	return &Builder{store: s}
}

// CreateParams holds the inputs for one ledger transaction.
//
// Amount is signed: negative means money leaving the source account. The
// builder performs no sign inference; transfer and opening-balance flows must
// pre-negate as needed before calling Create. FITID and CategoryID are
// optional (empty / zero).
type CreateParams struct {
	Title         string
	Date          time.Time
	Type          models.TransactionType
	SourceID      int64
	DestinationID int64
	Amount        decimal.Decimal
	FITID         string
	CategoryID    int64
	Notes         string
}

// Create writes one transaction and exactly two splits: one on the source
// account with the signed amount, opposing the destination; one on the
// destination with the negated amount, opposing the source. All three rows
// persist atomically — a failure partway leaves no unbalanced transaction
// behind.
func (b *Builder) Create(p CreateParams) (*models.Transaction, error) {
	t := models.Transaction{
		Title: p.Title,
		Date:  p.Date,
		Type:  p.Type,
		FITID: p.FITID,
		Notes: p.Notes,
	}

	err := b.store.InTransaction(func(tx store.TxStore) error {
		if err := tx.CreateTransaction(&t); err != nil {
			return err
		}

		source := models.Split{
			TransactionID:     t.ID,
			AccountID:         p.SourceID,
			OpposingAccountID: p.DestinationID,
			Title:             p.Title,
			Date:              p.Date,
			Amount:            p.Amount,
			CategoryID:        p.CategoryID,
			Notes:             p.Notes,
		}
		if err := tx.CreateSplit(&source); err != nil {
			return err
		}
		destination := source.Opposite()
		return tx.CreateSplit(&destination)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"id":     t.ID,
		"title":  t.Title,
		"type":   t.Type.String(),
		"amount": p.Amount.String(),
	}).Debug("Created transaction")
	return &t, nil
}
