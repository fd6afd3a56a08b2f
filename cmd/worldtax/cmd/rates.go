package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/worldtax/internal/model"
)

var ratesCmd = &cobra.Command{
	Use:   "rates [region-code]",
	Short: "Show rate catalog entries",
	Long: `Show the configured rate entries for a region code, or list every
region in the catalog when no code is given.

Examples:
  worldtax rates DE
  worldtax rates CA-BC
  worldtax rates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}

func runRates(cmd *cobra.Command, args []string) error {
	db, err := loadDatabase()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		codes := db.RegionCodes()
		sort.Strings(codes)
		return outputRegionList(codes)
	}

	code := args[0]
	entries, ok := db.Rates(code)
	if !ok {
		return &model.RegionNotFoundError{Region: code}
	}
	return outputRateEntries(code, entries)
}

func outputRegionList(codes []string) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(codes)
	case "table":
		for _, code := range codes {
			fmt.Println(code)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputRateEntries(code string, entries []model.RateEntry) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string][]model.RateEntry{code: entries})
	case "table":
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tRATE\tCOMPOUND")
		for _, entry := range entries {
			fmt.Fprintf(tw, "%s\t%.5f\t%v\n", entry.TaxKind, entry.Rate, entry.Compound)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
