// Package importcsv handles the generic CSV import command
package importcsv

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinjqiu/silverstrike/cmd/root"
	"github.com/kevinjqiu/silverstrike/internal/csvimport"
)

var (
	columns      string
	hasHeader    bool
	dateFormat   string
	profileName  string
	profilesFile string
)

// Cmd represents the import-csv command
var Cmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Import a generic CSV transaction export",
	Long: `Import a generic CSV transaction export into the ledger. Column semantics
are given as a space-separated list of role codes, one per CSV column:

  0 skip    1 source account    2 destination account    3 amount
  4 date    5 notes             6 category               7 title

Alternatively a named profile from a YAML profiles file can be used. This
path performs no deduplication: re-importing a file duplicates its rows.`,
	Args: cobra.ExactArgs(1),
	RunE: importCSVFunc,
}

func init() {
	Cmd.Flags().StringVarP(&columns, "columns", "c", "", `column role codes, e.g. "1 2 3 4"`)
	Cmd.Flags().BoolVar(&hasHeader, "headers", false, "discard the first row as a header")
	Cmd.Flags().StringVar(&dateFormat, "date-format", "", "Go date layout for the date column")
	Cmd.Flags().StringVarP(&profileName, "profile", "p", "", "named import profile to use")
	Cmd.Flags().StringVar(&profilesFile, "profiles", "profiles.yaml", "path to the profiles file")
}

func importCSVFunc(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	s, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer s.Close()

	importer, err := csvimport.NewImporter(s)
	if err != nil {
		return err
	}
	return importer.Import(args[0], cfg)
}

func buildConfig() (csvimport.Config, error) {
	if profileName != "" {
		profiles, err := csvimport.LoadProfiles(profilesFile)
		if err != nil {
			return csvimport.Config{}, err
		}
		profile, ok := profiles[profileName]
		if !ok {
			return csvimport.Config{}, fmt.Errorf("unknown profile %q in %s", profileName, profilesFile)
		}
		return profile.Config()
	}

	if columns == "" {
		return csvimport.Config{}, fmt.Errorf("either --columns or --profile is required")
	}
	roles, err := csvimport.ParseColumnConfig(columns)
	if err != nil {
		return csvimport.Config{}, err
	}

	layout := dateFormat
	if layout == "" {
		layout = root.Cfg.CSV.DateFormat
	}
	return csvimport.Config{
		Columns:    roles,
		HasHeader:  hasHeader,
		DateLayout: layout,
	}, nil
}
