package fireflyimport

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinjqiu/silverstrike/internal/models"
	"github.com/kevinjqiu/silverstrike/internal/parsererror"
	"github.com/kevinjqiu/silverstrike/internal/store"
)

const fireflyHeader = "date,description,amount,asset_account_name,opposing_account_name,category_name,notes,transaction_type\n"

func importRows(t *testing.T, s *store.MemoryStore, rows ...string) (int, error) {
	t.Helper()
	importer, err := NewImporter(s)
	require.NoError(t, err)
	csv := fireflyHeader + strings.Join(rows, "\n") + "\n"
	return importer.ImportReader(strings.NewReader(csv))
}

func accountByName(s *store.MemoryStore, name string) (models.Account, bool) {
	for _, a := range s.AccountRows {
		if a.Name == name {
			return a, true
		}
	}
	return models.Account{}, false
}

func TestImportWithdrawal(t *testing.T) {
	s := store.NewMemoryStore()
	count, err := importRows(t, s,
		"20240115,Weekly groceries,-42.50,Checking,Grocery Store,Food,weekly,Withdrawal")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, s.TransactionRows, 1)
	transaction := s.TransactionRows[0]
	assert.Equal(t, models.TypeWithdraw, transaction.Type)
	assert.Equal(t, "Weekly groceries", transaction.Title)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), transaction.Date)

	source, ok := accountByName(s, "Checking")
	require.True(t, ok)
	assert.Equal(t, models.AccountPersonal, source.Kind)
	destination, ok := accountByName(s, "Grocery Store")
	require.True(t, ok)
	assert.Equal(t, models.AccountForeign, destination.Kind)

	require.Len(t, s.CategoryRows, 1)
	assert.Equal(t, "Food", s.CategoryRows[0].Name)

	splits := s.SplitsForTransaction(transaction.ID)
	require.Len(t, splits, 2)
	assert.True(t, splits[0].Amount.Add(splits[1].Amount).IsZero())
	assert.Equal(t, splits[0].AccountID, splits[1].OpposingAccountID)
	assert.Equal(t, splits[1].AccountID, splits[0].OpposingAccountID)
	for _, split := range splits {
		assert.Equal(t, "Weekly groceries", split.Title)
		assert.Equal(t, s.CategoryRows[0].ID, split.CategoryID)
		assert.Equal(t, transaction.Date, split.Date)
	}
}

func TestImportDeposit(t *testing.T) {
	s := store.NewMemoryStore()
	count, err := importRows(t, s,
		"20240131,Salary,3200.00,Checking,Employer,,,Deposit")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, s.TransactionRows, 1)
	assert.Equal(t, models.TypeDeposit, s.TransactionRows[0].Type)

	employer, ok := accountByName(s, "Employer")
	require.True(t, ok)
	assert.Equal(t, models.AccountForeign, employer.Kind)

	// Empty category resolves to no category, not a created one.
	assert.Empty(t, s.CategoryRows)
	for _, split := range s.SplitsForTransaction(s.TransactionRows[0].ID) {
		assert.Equal(t, int64(0), split.CategoryID)
	}
}

func TestImportTransferFiltering(t *testing.T) {
	s := store.NewMemoryStore()

	// Firefly exports a transfer once per direction; only the negative row
	// is canonical.
	count, err := importRows(t, s,
		"20240110,To savings,-100.00,Checking,Savings,,,Transfer",
		"20240110,To savings,100.00,Savings,Checking,,,Transfer")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, s.TransactionRows, 1)
	assert.Equal(t, models.TypeTransfer, s.TransactionRows[0].Type)

	savings, ok := accountByName(s, "Savings")
	require.True(t, ok)
	assert.Equal(t, models.AccountPersonal, savings.Kind,
		"transfer destination must resolve as a personal account")
}

func TestImportPositiveTransferOnlyProducesNothing(t *testing.T) {
	s := store.NewMemoryStore()
	count, err := importRows(t, s,
		"20240110,To savings,100.00,Savings,Checking,,,Transfer")
	require.NoError(t, err)

	assert.Equal(t, 0, count)
	assert.Empty(t, s.TransactionRows)
}

func TestImportOpeningBalance(t *testing.T) {
	s := store.NewMemoryStore()
	count, err := importRows(t, s,
		"20240101,Opening balance for Checking,1500.00,Checking,Some Literal Value,,,Opening balance")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, s.TransactionRows, 1)
	assert.Equal(t, models.TypeUnspecified, s.TransactionRows[0].Type)

	// The destination field's literal value is ignored.
	_, ok := accountByName(s, "Some Literal Value")
	assert.False(t, ok)
	system, ok := accountByName(s, models.SystemAccountName)
	require.True(t, ok)
	assert.Equal(t, models.AccountSystem, system.Kind)

	splits := s.SplitsForTransaction(s.TransactionRows[0].ID)
	require.Len(t, splits, 2)
	assert.Equal(t, system.ID, splits[0].OpposingAccountID)
	assert.Equal(t, system.ID, splits[1].AccountID)
}

func TestImportSystemAccountReused(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := importRows(t, s,
		"20240101,Opening balance A,100.00,Checking,x,,,Opening balance",
		"20240101,Opening balance B,200.00,Savings,y,,,Opening balance")
	require.NoError(t, err)

	systems := 0
	for _, a := range s.AccountRows {
		if a.Kind == models.AccountSystem {
			systems++
		}
	}
	assert.Equal(t, 1, systems)
}

func TestImportUnknownTypeAborts(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := importRows(t, s,
		"20240115,ok,-1.00,Checking,Shop,,,Withdrawal",
		"20240116,bad,-2.00,Checking,Shop,,,Teleport")
	require.Error(t, err)

	var rowErr *parsererror.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Row)
	// The row before the malformed one remains imported.
	assert.Len(t, s.TransactionRows, 1)
}

func TestImportBulkSplitsAtomic(t *testing.T) {
	s := store.NewMemoryStore()
	s.FailSplitTitle = "Doomed"

	_, err := importRows(t, s,
		"20240115,Doomed row,-5.00,Checking,Shop,,,Withdrawal")
	require.Error(t, err)

	assert.Empty(t, s.TransactionRows)
	assert.Empty(t, s.SplitRows)
	// Accounts created while resolving the failed row remain by design.
	assert.Len(t, s.AccountRows, 2)
}

func TestImportAmountPrecision(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := importRows(t, s,
		"20240115,Precise,-42.505,Checking,Shop,,,Withdrawal")
	require.NoError(t, err)

	splits := s.SplitsForTransaction(s.TransactionRows[0].ID)
	require.Len(t, splits, 2)
	assert.True(t, splits[0].Amount.Equal(decimal.RequireFromString("-42.505")))
	assert.True(t, splits[1].Amount.Equal(decimal.RequireFromString("42.505")))
}
