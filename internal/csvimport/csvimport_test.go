package csvimport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinjqiu/silverstrike/internal/models"
	"github.com/kevinjqiu/silverstrike/internal/parsererror"
	"github.com/kevinjqiu/silverstrike/internal/store"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseColumnConfig(t *testing.T) {
	roles, err := ParseColumnConfig("1 2 3 4")
	require.NoError(t, err)
	assert.Equal(t, []ColumnRole{
		ColumnSourceAccount, ColumnDestinationAccount, ColumnAmount, ColumnDate,
	}, roles)

	_, err = ParseColumnConfig("")
	assert.Error(t, err)
	_, err = ParseColumnConfig("1 x 3")
	assert.Error(t, err)
	_, err = ParseColumnConfig("1 42")
	assert.Error(t, err)
}

func TestImportRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	importer, err := NewImporter(s)
	require.NoError(t, err)

	path := writeTempCSV(t, "Checking,Grocery,-42.50,2024-01-15\n")
	cfg := Config{
		Columns: []ColumnRole{
			ColumnSourceAccount, ColumnDestinationAccount, ColumnAmount, ColumnDate,
		},
		DateLayout: "2006-01-02",
	}
	require.NoError(t, importer.Import(path, cfg))

	require.Len(t, s.TransactionRows, 1)
	transaction := s.TransactionRows[0]
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), transaction.Date)

	splits := s.SplitsForTransaction(transaction.ID)
	require.Len(t, splits, 2)

	byAccount := map[int64]models.Split{}
	for _, split := range splits {
		byAccount[split.AccountID] = split
	}
	var checkingID, groceryID int64
	for _, a := range s.AccountRows {
		switch a.Name {
		case "Checking":
			checkingID = a.ID
		case "Grocery":
			groceryID = a.ID
		}
	}
	require.NotZero(t, checkingID)
	require.NotZero(t, groceryID, "destination must be created under its own name")

	assert.True(t, byAccount[checkingID].Amount.Equal(decimal.RequireFromString("-42.50")))
	assert.True(t, byAccount[groceryID].Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, groceryID, byAccount[checkingID].OpposingAccountID)
	assert.Equal(t, checkingID, byAccount[groceryID].OpposingAccountID)
}

func TestImportDiscardsHeaderRow(t *testing.T) {
	s := store.NewMemoryStore()
	importer, err := NewImporter(s)
	require.NoError(t, err)

	path := writeTempCSV(t, "src,dst,amount,date\nChecking,Rent,-900,2024-02-01\n")
	cfg := Config{
		Columns: []ColumnRole{
			ColumnSourceAccount, ColumnDestinationAccount, ColumnAmount, ColumnDate,
		},
		HasHeader:  true,
		DateLayout: "2006-01-02",
	}
	require.NoError(t, importer.Import(path, cfg))
	assert.Len(t, s.TransactionRows, 1)
}

func TestImportMapsAllRoles(t *testing.T) {
	s := store.NewMemoryStore()
	importer, err := NewImporter(s)
	require.NoError(t, err)

	path := writeTempCSV(t, "Checking,Cafe,-3.20,2024-03-01,flat white,Eating Out,Coffee\n")
	cfg := Config{
		Columns: []ColumnRole{
			ColumnSourceAccount, ColumnDestinationAccount, ColumnAmount,
			ColumnDate, ColumnNotes, ColumnCategory, ColumnTitle,
		},
		DateLayout: "2006-01-02",
	}
	require.NoError(t, importer.Import(path, cfg))

	require.Len(t, s.TransactionRows, 1)
	assert.Equal(t, "Coffee", s.TransactionRows[0].Title)
	assert.Equal(t, "flat white", s.TransactionRows[0].Notes)

	require.Len(t, s.CategoryRows, 1)
	assert.Equal(t, "Eating Out", s.CategoryRows[0].Name)

	splits := s.SplitsForTransaction(s.TransactionRows[0].ID)
	require.Len(t, splits, 2)
	for _, split := range splits {
		assert.Equal(t, s.CategoryRows[0].ID, split.CategoryID)
	}
}

func TestImportNoDeduplication(t *testing.T) {
	s := store.NewMemoryStore()
	importer, err := NewImporter(s)
	require.NoError(t, err)

	path := writeTempCSV(t, "Checking,Grocery,-42.50,2024-01-15\n")
	cfg := Config{
		Columns: []ColumnRole{
			ColumnSourceAccount, ColumnDestinationAccount, ColumnAmount, ColumnDate,
		},
		DateLayout: "2006-01-02",
	}
	require.NoError(t, importer.Import(path, cfg))
	require.NoError(t, importer.Import(path, cfg))

	// Re-importing the same file duplicates transactions but not accounts.
	assert.Len(t, s.TransactionRows, 2)
	assert.Len(t, s.AccountRows, 2)
}

func TestImportMalformedRowAborts(t *testing.T) {
	s := store.NewMemoryStore()
	importer, err := NewImporter(s)
	require.NoError(t, err)

	path := writeTempCSV(t,
		"Checking,Grocery,-1.00,2024-01-15\nChecking,Grocery,not-a-number,2024-01-16\nChecking,Grocery,-3.00,2024-01-17\n")
	cfg := Config{
		Columns: []ColumnRole{
			ColumnSourceAccount, ColumnDestinationAccount, ColumnAmount, ColumnDate,
		},
		DateLayout: "2006-01-02",
	}

	err = importer.Import(path, cfg)
	require.Error(t, err)
	var rowErr *parsererror.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)

	// Rows before the malformed one remain imported; the rest are not.
	assert.Len(t, s.TransactionRows, 1)
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
mybank:
  columns: "1 2 3 4"
  has_header: true
  date_layout: "02.01.2006"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)
	require.Contains(t, profiles, "mybank")

	cfg, err := profiles["mybank"].Config()
	require.NoError(t, err)
	assert.True(t, cfg.HasHeader)
	assert.Equal(t, "02.01.2006", cfg.DateLayout)
	assert.Len(t, cfg.Columns, 4)
}
