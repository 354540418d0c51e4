// Package csvimport imports generic CSV transaction exports into the ledger.
// Column semantics are supplied out-of-band as an ordered list of role codes,
// one per CSV column.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/dateutils"
	"github.com/kevinjqiu/silverstrike/internal/ledger"
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

// ColumnRole tells the importer how to interpret one CSV column.
type ColumnRole int

const (
	// ColumnSkip ignores the column.
	ColumnSkip ColumnRole = iota
	// ColumnSourceAccount is the name of the account money moves out of.
	ColumnSourceAccount
	// ColumnDestinationAccount is the name of the account money moves into.
	ColumnDestinationAccount
	// ColumnAmount is the signed decimal amount on the source account.
	ColumnAmount
	// ColumnDate is the transaction date.
	ColumnDate
	// ColumnNotes is free-form notes.
	ColumnNotes
	// ColumnCategory is an optional category name.
	ColumnCategory
	// ColumnTitle is the transaction title.
	ColumnTitle
)

// Config describes how to interpret a CSV file.
type Config struct {
	// Columns holds one role per CSV column, in column order.
	Columns []ColumnRole
	// HasHeader discards the first row when true.
	HasHeader bool
	// DateLayout is the Go layout for the date column; empty tries a set of
	// common formats.
	DateLayout string
}

// ParseColumnConfig parses a space-separated list of integer role codes into
// column roles, e.g. "1 2 3 4" for source, destination, amount, date.
func ParseColumnConfig(s string) ([]ColumnRole, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty column configuration")
	}

	roles := make([]ColumnRole, len(fields))
	for i, f := range fields {
		code, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid column code %q: %w", f, err)
		}
		if code < int(ColumnSkip) || code > int(ColumnTitle) {
			return nil, fmt.Errorf("unknown column code %d", code)
		}
		roles[i] = ColumnRole(code)
	}
	return roles, nil
}

// record is one normalized CSV row.
type record struct {
	source      string
	destination string
	amount      string
	date        string
	notes       string
	category    string
	title       string
}

// Importer imports generic CSV files into the ledger.
type Importer struct {
	accounts   *resolver.AccountResolver
	categories *resolver.CategoryResolver
	builder    *ledger.Builder
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
	return &Importer{
		accounts:   accounts,
		categories: categories,
		builder:    ledger.NewBuilder(s),
	}, nil
}

// Import reads the CSV file at path and creates one transaction per row.
//
// There is no deduplication on this path: re-importing the same file
// produces duplicate transactions. A malformed row aborts the whole import;
// rows before it remain imported.
func (i *Importer) Import(path string, cfg Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	log.WithField("file", path).Info("Importing generic CSV file")
	count, err := i.importRecords(f, cfg)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "count": count}).
		Info("Finished CSV import")
	return nil
}

func (i *Importer) importRecords(r io.Reader, cfg Config) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rowNum := 0
	count := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return count, nil
		}
		rowNum++
		if err != nil {
			return count, &parsererror.RowError{Importer: "csv", Row: rowNum, Err: err}
		}
		if cfg.HasHeader && rowNum == 1 {
			continue
		}

		rec := mapColumns(row, cfg.Columns)
		if err := i.importRecord(rec, cfg); err != nil {
			return count, &parsererror.RowError{Importer: "csv", Row: rowNum, Err: err}
		}
		count++
	}
}

func (i *Importer) importRecord(rec record, cfg Config) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(rec.amount))
	if err != nil {
		return &parsererror.ParseError{Importer: "csv", Field: "amount", Value: rec.amount, Err: err}
	}
	date, err := dateutils.Parse(rec.date, cfg.DateLayout)
	if err != nil {
		return &parsererror.ParseError{Importer: "csv", Field: "date", Value: rec.date, Err: err}
	}

	// Each name resolves independently; a new destination is created under
	// its own name, never the source's.
	sourceID, err := i.accounts.Personal(rec.source)
	if err != nil {
		return err
	}
	destinationID, err := i.accounts.Personal(rec.destination)
	if err != nil {
		return err
	}
	categoryID, err := i.categories.Resolve(rec.category)
	if err != nil {
		return err
	}

	_, err = i.builder.Create(ledger.CreateParams{
		Title:         rec.title,
		Date:          date,
		Type:          models.TypeUnspecified,
		SourceID:      sourceID,
		DestinationID: destinationID,
		Amount:        amount,
		CategoryID:    categoryID,
		Notes:         rec.notes,
	})
	return err
}

// mapColumns applies the configured roles positionally. Columns beyond the
// configured roles are ignored.
func mapColumns(row []string, roles []ColumnRole) record {
	var rec record
	for idx, value := range row {
		if idx >= len(roles) {
			break
		}
		switch roles[idx] {
		case ColumnSourceAccount:
			rec.source = value
		case ColumnDestinationAccount:
			rec.destination = value
		case ColumnAmount:
			rec.amount = value
		case ColumnDate:
			rec.date = value
		case ColumnNotes:
			rec.notes = value
		case ColumnCategory:
			rec.category = value
		case ColumnTitle:
			rec.title = value
		}
	}
	return rec
}
