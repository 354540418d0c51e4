package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Split is one leg of a double-entry transaction. Every transaction has
// exactly two splits with equal and opposite amounts, each referencing the
// other leg's account as its opposing account. A negative amount means money
// leaving the split's account.
type Split struct {
	ID                int64
	TransactionID     int64
	AccountID         int64
	OpposingAccountID int64
	Title             string
	Date              time.Time
	Amount            decimal.Decimal
	// CategoryID is optional; zero means no category.
	CategoryID int64
	Notes      string
}

// Opposite returns the balancing leg of s: same transaction, title, date and
// category, with the account references swapped and the amount negated.
func (s Split) Opposite() Split {
	o := s
	o.ID = 0
	o.AccountID = s.OpposingAccountID
	o.OpposingAccountID = s.AccountID
	o.Amount = s.Amount.Neg()
	return o
}
