// Package importofx handles the OFX/QFX statement import command
package importofx

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinjqiu/silverstrike/cmd/root"
	"github.com/kevinjqiu/silverstrike/internal/ofximport"
)

// Cmd represents the import-ofx command
var Cmd = &cobra.Command{
	Use:   "import-ofx <file>",
	Short: "Import an OFX/QFX bank statement export",
	Long: `Import an OFX/QFX bank statement export into the ledger. Statements are
deduplicated by the bank's transaction id: re-importing a file creates no
duplicates. Prints the number of imported, skipped and failed records.`,
	Args: cobra.ExactArgs(1),
	RunE: importOFXFunc,
}

func importOFXFunc(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("could not open %s", path)
	}

	s, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	importer, err := ofximport.NewImporter(s)
	if err != nil {
		return err
	}
	result, err := importer.Import(path)
	if err != nil {
		return err
	}

	fmt.Printf("Imported: %d\n", len(result.Imported))
	fmt.Printf("Skipped: %d\n", len(result.Skipped))
	fmt.Printf("Failed: %d\n", len(result.Failed))
	return nil
}
