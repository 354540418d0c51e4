// Package models provides the data structures used throughout the application.
package models

import (
	"crypto/sha256"
	"fmt"
)

// AccountKind partitions the ledger's accounts.
type AccountKind int

const (
	// AccountPersonal is an account owned by the user (bank account, wallet).
	AccountPersonal AccountKind = iota + 1
	// AccountForeign is an external counterparty (payee, merchant).
	AccountForeign
	// AccountSystem is the synthetic counterparty for opening balances.
	AccountSystem
)

// String returns a human-readable name for the account kind.
func (k AccountKind) String() string {
	switch k {
	case AccountPersonal:
		return "personal"
	case AccountForeign:
		return "foreign"
	case AccountSystem:
		return "system"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// SystemAccountName is the fixed name of the singleton system account.
const SystemAccountName = "System Account"

// Account represents a ledger account. Name is unique within a kind for
// resolution purposes. Digest, when set, uniquely identifies one personal
// account by its external bank account identifier.
type Account struct {
	ID     int64
	Name   string
	Kind   AccountKind
	Digest string
}

// NewDigest returns the stable digest for an external bank account
// identifier. Bank-assigned identifiers are stable while display names are
// not, so OFX imports key personal accounts on this value.
func NewDigest(bankAccountID string) string {
	sum := sha256.Sum256([]byte(bankAccountID))
	return fmt.Sprintf("sha256:%x", sum)
}
