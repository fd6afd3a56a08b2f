package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/worldtax/internal/database"
)

var (
	version = "1.0.0"

	// Global flags
	verbose        bool
	outputFormat   string
	ratesFile      string
	agreementsFile string
)

var rootCmd = &cobra.Command{
	Use:   "worldtax",
	Short: "Resolve tax treatment for cross-border and domestic transactions",
	Long: `Worldtax is a CLI tool for determining the tax treatment and amount
owed for commercial transactions, based on the buyer's and seller's
jurisdictions, trade agreements (EU, GCC, US, CA), and transaction
attributes such as B2B/B2C and digital-goods status.

Examples:
  # German domestic B2C sale of 100
  worldtax calc --from DE --to DE --type b2c --amount 100

  # EU cross-border B2B (reverse charge)
  worldtax calc --from DE --to FR --type b2b --amount 1000

  # US interstate sale above the remote-seller threshold
  worldtax calc --from US-CA --to US-WA --type b2c --amount 100 --ignore-threshold

  # Show the rate catalog entries for a region
  worldtax rates CA-BC`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates-file", "", "Rate document path (env: WORLDTAX_RATES_FILE; default: built-in data)")
	rootCmd.PersistentFlags().StringVar(&agreementsFile, "agreements-file", "", "Agreement document path (env: WORLDTAX_AGREEMENTS_FILE; default: built-in data)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if ratesFile == "" {
		ratesFile = os.Getenv("WORLDTAX_RATES_FILE")
	}
	if agreementsFile == "" {
		agreementsFile = os.Getenv("WORLDTAX_AGREEMENTS_FILE")
	}
}

// loadDatabase builds the tax database from the configured documents, or
// the built-in data when none are given. Both files must be supplied
// together.
func loadDatabase() (*database.TaxDatabase, error) {
	if ratesFile == "" && agreementsFile == "" {
		printVerbose("Using built-in rate and agreement data\n")
		return database.Default()
	}
	if ratesFile == "" || agreementsFile == "" {
		return nil, fmt.Errorf("--rates-file and --agreements-file must be supplied together")
	}
	printVerbose("Loading database from %s and %s\n", ratesFile, agreementsFile)
	return database.FromFiles(ratesFile, agreementsFile)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
