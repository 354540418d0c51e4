// Package ofximport imports OFX/QFX bank statement exports into the ledger.
// Statement parsing is delegated to ofxgo; this package only maps parsed
// statements onto ledger accounts and transactions.
package ofximport

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/ledger"
	"github.com/kevinjqiu/silverstrike/internal/models"
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

// amountPlaces is the storage precision for statement amounts. Institutions
// report cent-level precision; rounding here tolerates floating-point
// representation noise in the source file.
const amountPlaces = 3

// Result reports the outcome of one import run, as lists of external
// transaction ids.
type Result struct {
	Imported []string
	Skipped  []string
	Failed   []string
}

// statement is one account's worth of parsed OFX records.
type statement struct {
	bankAccountID string
	records       []record
}

// record is one normalized OFX transaction.
type record struct {
	fitid    string
	payee    string
	trnType  string
	date     time.Time
	amount   decimal.Decimal
	memo     string
	sic      string
	checkNum string
}

// Importer imports OFX statements into the ledger.
type Importer struct {
	store    store.Store
	accounts *resolver.AccountResolver
	builder  *ledger.Builder
}

// NewImporter creates an Importer with resolver caches built from the
// current ledger state.
func NewImporter(s store.Store) (*Importer, error) {
	accounts, err := resolver.NewAccountResolver(s)
	if err != nil {
		return nil, err
	}
	return &Importer{
		store:    s,
		accounts: accounts,
		builder:  ledger.NewBuilder(s),
	}, nil
}

// Import reads the OFX/QFX file at path and imports every statement in it.
// A file that cannot be opened or parsed fails the import as a whole; a
// failure on one record does not.
func (i *Importer) Import(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return i.ImportReader(f)
}

// ImportReader imports OFX statements from r.
func (i *Importer) ImportReader(r io.Reader) (*Result, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing OFX: %w", err)
	}

	return i.importStatements(normalizeResponse(resp))
}

// importStatements runs the reconciliation stage: resolve accounts, dedup by
// fitid, create transactions. Failures are isolated per record so one
// malformed record in a statement of hundreds does not block the rest.
func (i *Importer) importStatements(statements []statement) (*Result, error) {
	result := &Result{}
	for _, stmt := range statements {
		// This account represents "my bank account", keyed by digest
		// because bank-assigned ids are stable while display names are not.
		accountID, err := i.accounts.PersonalByBankID(stmt.bankAccountID)
		if err != nil {
			return nil, err
		}

		for _, rec := range stmt.records {
			log.WithFields(logrus.Fields{
				"id":       rec.fitid,
				"payee":    rec.payee,
				"type":     rec.trnType,
				"date":     rec.date.Format("2006-01-02"),
				"amount":   rec.amount.String(),
				"memo":     rec.memo,
				"sic":      rec.sic,
				"checknum": rec.checkNum,
			}).Info("Importing transaction")

			switch i.importRecord(accountID, rec) {
			case outcomeImported:
				result.Imported = append(result.Imported, rec.fitid)
			case outcomeSkipped:
				result.Skipped = append(result.Skipped, rec.fitid)
			case outcomeFailed:
				result.Failed = append(result.Failed, rec.fitid)
			}
		}
	}
	return result, nil
}

// outcome classifies one record's import attempt.
type outcome int

const (
	outcomeImported outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (i *Importer) importRecord(accountID int64, rec record) outcome {
	// A fitid already in the ledger means this record was imported by an
	// earlier run; equality is by exact match.
	if _, err := i.store.FindTransactionByFITID(rec.fitid); err == nil {
		log.WithField("id", rec.fitid).Info("Transaction is already imported, skipping")
		return outcomeSkipped
	} else if err != store.ErrNotFound {
		log.WithError(err).WithField("id", rec.fitid).Error("Failed to look up transaction")
		return outcomeFailed
	}

	payeeID, err := i.accounts.Foreign(rec.payee)
	if err != nil {
		log.WithError(err).WithField("id", rec.fitid).Error("Failed to resolve payee account")
		return outcomeFailed
	}

	transactionType := models.TypeDeposit
	if rec.amount.Sign() < 0 {
		transactionType = models.TypeWithdraw
	}
	title := strings.TrimSpace(rec.memo + " " + rec.payee)

	_, err = i.builder.Create(ledger.CreateParams{
		Title:         title,
		Date:          rec.date,
		Type:          transactionType,
		SourceID:      accountID,
		DestinationID: payeeID,
		Amount:        rec.amount.Round(amountPlaces),
		FITID:         rec.fitid,
	})
	if err != nil {
		log.WithError(err).WithField("id", rec.fitid).
			Error("Encountered error during import of transaction")
		return outcomeFailed
	}
	return outcomeImported
}

// normalizeResponse flattens bank and credit-card statements into the
// internal statement form.
func normalizeResponse(resp *ofxgo.Response) []statement {
	var statements []statement
	for _, msg := range append(resp.Bank, resp.CreditCard...) {
		var (
			acctID string
			txns   []ofxgo.Transaction
		)
		switch stmt := msg.(type) {
		case *ofxgo.StatementResponse:
			acctID = stmt.BankAcctFrom.AcctID.String()
			if stmt.BankTranList != nil {
				txns = stmt.BankTranList.Transactions
			}
		case *ofxgo.CCStatementResponse:
			acctID = stmt.CCAcctFrom.AcctID.String()
			if stmt.BankTranList != nil {
				txns = stmt.BankTranList.Transactions
			}
		default:
			continue
		}

		s := statement{bankAccountID: acctID}
		for _, t := range txns {
			s.records = append(s.records, normalizeTransaction(t))
		}
		statements = append(statements, s)
	}
	return statements
}

func normalizeTransaction(t ofxgo.Transaction) record {
	payee := t.Name.String()
	if payee == "" && t.Payee != nil {
		payee = t.Payee.Name.String()
	}

	amount, err := decimal.NewFromString(t.TrnAmt.String())
	if err != nil {
		// ofxgo guarantees a numeric amount; an unparsable one still gets a
		// record so it can be reported as failed instead of vanishing.
		log.WithField("amount", t.TrnAmt.String()).Warn("Unparsable amount in OFX record")
		amount = decimal.Zero
	}

	return record{
		fitid:    t.FiTID.String(),
		payee:    payee,
		trnType:  t.TrnType.String(),
		date:     t.DtPosted.Time,
		amount:   amount,
		memo:     t.Memo.String(),
		sic:      strconv.FormatInt(int64(t.SIC), 10),
		checkNum: t.CheckNum.String(),
	}
}
