package models

import (
	"fmt"
	"time"
)

// TransactionType classifies a ledger transaction.
type TransactionType int

const (
	// TypeUnspecified is used when no classification applies (generic CSV
	// rows, opening balances).
	TypeUnspecified TransactionType = iota
	// TypeWithdraw is money leaving a personal account towards a foreign one.
	TypeWithdraw
	// TypeDeposit is money entering a personal account from a foreign one.
	TypeDeposit
	// TypeTransfer moves money between two personal accounts.
	TypeTransfer
	// TypeOpeningBalance seeds a personal account against the system account.
	TypeOpeningBalance
)

// String returns a human-readable name for the transaction type.
func (t TransactionType) String() string {
	switch t {
	case TypeUnspecified:
		return "unspecified"
	case TypeWithdraw:
		return "withdraw"
	case TypeDeposit:
		return "deposit"
	case TypeTransfer:
		return "transfer"
	case TypeOpeningBalance:
		return "opening balance"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Transaction is one money movement. It exclusively owns exactly two splits
// with equal and opposite amounts; deleting the transaction deletes both.
// FITID is the external financial-institution transaction id used for OFX
// deduplication: a transaction with a given FITID is imported at most once.
type Transaction struct {
	ID    int64
	Title string
	Date  time.Time
	Type  TransactionType
	FITID string
	Notes string
}
