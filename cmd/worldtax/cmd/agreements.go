package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agreementsCmd = &cobra.Command{
	Use:   "agreements [name]",
	Short: "List trade agreements or show one in full",
	Long: `List the configured trade agreements in registry order, or show one
agreement's members and rule slots.

Examples:
  worldtax agreements
  worldtax agreements EU`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAgreements,
}

func init() {
	rootCmd.AddCommand(agreementsCmd)
}

func runAgreements(cmd *cobra.Command, args []string) error {
	db, err := loadDatabase()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		agreement, err := db.Agreement(args[0])
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(agreement)
	}

	names := db.AgreementNames()

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(names)
	case "table":
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tMEMBERS")
		for _, name := range names {
			agreement, err := db.Agreement(name)
			if err != nil {
				continue
			}
			members := fmt.Sprintf("%d", len(agreement.Members))
			if len(agreement.Members) <= 6 {
				members = strings.Join(agreement.Members, ",")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, agreement.Name, agreement.Kind, members)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
