// Package importfirefly handles the Firefly CSV import command
package importfirefly

import (
	"github.com/spf13/cobra"

	"github.com/kevinjqiu/silverstrike/cmd/root"
	"github.com/kevinjqiu/silverstrike/internal/fireflyimport"
)

// Cmd represents the import-firefly command
var Cmd = &cobra.Command{
	Use:   "import-firefly <file>",
	Short: "Import a Firefly CSV export",
	Long: `Import a Firefly CSV export into the ledger. Columns are matched by header
name; transaction types drive account classification. This path performs no
deduplication: re-importing a file duplicates its rows.`,
	Args: cobra.ExactArgs(1),
	RunE: importFireflyFunc,
}

func importFireflyFunc(cmd *cobra.Command, args []string) error {
	s, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	importer, err := fireflyimport.NewImporter(s)
	if err != nil {
		return err
	}
	return importer.Import(args[0])
}
