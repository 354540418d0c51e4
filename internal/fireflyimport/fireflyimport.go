// Package fireflyimport imports Firefly CSV exports into the ledger. The
// schema is fixed and columns are looked up by header name, which keeps the
// import robust against column reordering.
package fireflyimport

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/dateutils"
	"github.com/kevinjqiu/silverstrike/internal/models"
	"github.com/kevinjqiu/silverstrike/internal/parsererror"
	"github.com/kevinjqiu/silverstrike/internal/resolver"
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

// Row represents a single row in a Firefly CSV export.
// It uses struct tags for gocsv unmarshaling by header name.
type Row struct {
	Date            string `csv:"date"`
	Description     string `csv:"description"`
	Amount          string `csv:"amount"`
	SourceName      string `csv:"asset_account_name"`
	DestinationName string `csv:"opposing_account_name"`
	CategoryName    string `csv:"category_name"`
	Notes           string `csv:"notes"`
	TransactionType string `csv:"transaction_type"`
}

// Importer imports Firefly CSV exports into the ledger.
type Importer struct {
	store      store.Store
	accounts   *resolver.AccountResolver
	categories *resolver.CategoryResolver
}

// NewImporter creates an Importer with resolver caches built from the
// current ledger state.
func NewImporter(s store.Store) (*Importer, error) {
	accounts, err := resolver.NewAccountResolver(s)
	if err != nil {
		return nil, err
	}
	categories, err := resolver.NewCategoryResolver(s)
	if err != nil {
		return nil, err
	}
	return &Importer{store: s, accounts: accounts, categories: categories}, nil
}

// Import reads the Firefly CSV export at path and creates one transaction
// per canonical row. A malformed row aborts the rest of the import.
func (i *Importer) Import(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	log.WithField("file", path).Info("Importing Firefly CSV file")
	count, err := i.ImportReader(f)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "count": count}).
		Info("Finished Firefly import")
	return nil
}

// ImportReader imports Firefly rows from r and returns the number of
// transactions created.
func (i *Importer) ImportReader(r io.Reader) (int, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("error reading Firefly CSV: %w", err)
	}

	count := 0
	for idx, row := range rows {
		imported, err := i.importRow(row)
		if err != nil {
			// Row 1 is the header.
			return count, &parsererror.RowError{Importer: "firefly", Row: idx + 2, Err: err}
		}
		if imported {
			count++
		}
	}
	return count, nil
}

// importRow creates one transaction for a row. It returns false with no
// error for rows that are dropped by design (positive transfers).
func (i *Importer) importRow(row *Row) (bool, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	if err != nil {
		return false, &parsererror.ParseError{Importer: "firefly", Field: "amount", Value: row.Amount, Err: err}
	}
	date, err := dateutils.Parse(row.Date, dateutils.DateLayoutCompact)
	if err != nil {
		return false, &parsererror.ParseError{Importer: "firefly", Field: "date", Value: row.Date, Err: err}
	}

	sourceID, err := i.accounts.Personal(row.SourceName)
	if err != nil {
		return false, err
	}

	// The source type field drives both the ledger classification and the
	// kind the destination account resolves as.
	var (
		transactionType models.TransactionType
		destinationID   int64
	)
	switch row.TransactionType {
	case "Withdrawal":
		transactionType = models.TypeWithdraw
		destinationID, err = i.accounts.Foreign(row.DestinationName)
	case "Transfer":
		// Firefly exports each transfer twice, once per direction; only the
		// negative row is canonical.
		if amount.Sign() > 0 {
			log.WithField("title", row.Description).Debug("Dropping positive transfer row")
			return false, nil
		}
		transactionType = models.TypeTransfer
		destinationID, err = i.accounts.Personal(row.DestinationName)
	case "Deposit":
		transactionType = models.TypeDeposit
		destinationID, err = i.accounts.Foreign(row.DestinationName)
	case "Opening balance":
		// The destination field's literal value is ignored here; opening
		// balances always book against the system account.
		transactionType = models.TypeUnspecified
		destinationID, err = i.accounts.System()
	default:
		return false, &parsererror.ParseError{
			Importer: "firefly",
			Field:    "transaction_type",
			Value:    row.TransactionType,
			Err:      fmt.Errorf("unknown transaction type"),
		}
	}
	if err != nil {
		return false, err
	}

	categoryID, err := i.categories.Resolve(row.CategoryName)
	if err != nil {
		return false, err
	}

	// Both splits are written in one bulk insert, still inside a single
	// atomic unit so the balance invariant cannot be half-persisted.
	t := models.Transaction{
		Title: row.Description,
		Date:  date,
		Type:  transactionType,
	}
	err = i.store.InTransaction(func(tx store.TxStore) error {
		if err := tx.CreateTransaction(&t); err != nil {
			return err
		}

		source := models.Split{
			TransactionID:     t.ID,
			AccountID:         sourceID,
			OpposingAccountID: destinationID,
			Title:             row.Description,
			Date:              date,
			Amount:            amount,
			CategoryID:        categoryID,
			Notes:             row.Notes,
		}
		destination := source.Opposite()
		return tx.BulkCreateSplits([]*models.Split{&source, &destination})
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
