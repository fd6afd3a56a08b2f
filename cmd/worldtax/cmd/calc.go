package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	dec "github.com/rezonia/worldtax/internal/decimal"
	"github.com/rezonia/worldtax/internal/engine"
	"github.com/rezonia/worldtax/internal/model"
)

var (
	calcFrom            string
	calcTo              string
	calcType            string
	calcAmount          float64
	calcDigital         bool
	calcResaleCert      bool
	calcIgnoreThreshold bool
	calcAgreement       string
	calcNoAgreement     bool
	calcTier            string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate tax for a transaction scenario",
	Long: `Calculate the tax amount and applied rates for a single transaction.

Regions are given as ISO-3166 codes, with an optional subdivision
("DE", "US-CA", "CA-BC").

Examples:
  worldtax calc --from DE --to DE --type b2c --amount 100
  worldtax calc --from DE --to FR --type b2b --amount 1000
  worldtax calc --from CA-BC --to CA-BC --type b2c --amount 100000
  worldtax calc --from FR --to FR --type b2c --amount 100 --tier vat_standard
  worldtax calc --from DE --to FR --type b2c --amount 100 --no-agreement`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVar(&calcFrom, "from", "", "Source region code (required)")
	calcCmd.Flags().StringVar(&calcTo, "to", "", "Destination region code (required)")
	calcCmd.Flags().StringVar(&calcType, "type", "b2c", "Transaction type (b2b, b2c)")
	calcCmd.Flags().Float64Var(&calcAmount, "amount", 0, "Transaction amount (required)")
	calcCmd.Flags().BoolVar(&calcDigital, "digital", false, "Digital product or service")
	calcCmd.Flags().BoolVar(&calcResaleCert, "resale-certificate", false, "Buyer holds a resale certificate")
	calcCmd.Flags().BoolVar(&calcIgnoreThreshold, "ignore-threshold", false, "Force the above-threshold branch of threshold rules")
	calcCmd.Flags().StringVar(&calcAgreement, "agreement", "", "Force a trade agreement by name")
	calcCmd.Flags().BoolVar(&calcNoAgreement, "no-agreement", false, "Force the plain cross-border path")
	calcCmd.Flags().StringVar(&calcTier, "tier", "", "Restrict to a single tax kind (e.g. vat_standard, gst)")

	calcCmd.MarkFlagRequired("from")
	calcCmd.MarkFlagRequired("to")
	calcCmd.MarkFlagRequired("amount")
}

func runCalc(cmd *cobra.Command, args []string) error {
	scenario, err := buildScenario()
	if err != nil {
		return err
	}

	db, err := loadDatabase()
	if err != nil {
		return err
	}

	calculator := engine.NewCalculator(db)
	result, err := calculator.Evaluate(scenario, dec.FromFloat(calcAmount))
	if err != nil {
		return err
	}

	return outputCalcResult(scenario, result)
}

func buildScenario() (*model.TaxScenario, error) {
	source, err := parseRegion(calcFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid --from: %w", err)
	}
	destination, err := parseRegion(calcTo)
	if err != nil {
		return nil, fmt.Errorf("invalid --to: %w", err)
	}

	transactionType := model.TransactionType(strings.ToLower(calcType))
	if !transactionType.Valid() {
		return nil, fmt.Errorf("invalid --type %q: must be b2b or b2c", calcType)
	}

	if calcAmount < 0 {
		return nil, fmt.Errorf("--amount must not be negative")
	}
	if calcAgreement != "" && calcNoAgreement {
		return nil, fmt.Errorf("--agreement and --no-agreement are mutually exclusive")
	}

	scenario := model.NewScenario(source, destination, transactionType)
	scenario.IsDigitalProductOrService = calcDigital
	scenario.HasResaleCertificate = calcResaleCert
	scenario.IgnoreThreshold = calcIgnoreThreshold
	scenario.RateOverride = model.TaxKind(calcTier)
	if calcNoAgreement {
		scenario.TradeAgreementOverride = model.NoAgreement()
	} else if calcAgreement != "" {
		scenario.TradeAgreementOverride = model.UseAgreement(calcAgreement)
	}

	return scenario, nil
}

// parseRegion splits a "CC" or "CC-SUB" code into a validated region.
func parseRegion(code string) (model.Region, error) {
	country, subdivision, _ := strings.Cut(code, "-")
	return model.NewRegion(country, subdivision)
}

// CalcResult holds the result of one calculation for output
type CalcResult struct {
	Source          string       `json:"source"`
	Destination     string       `json:"destination"`
	TransactionType string       `json:"transaction_type"`
	Amount          float64      `json:"amount"`
	TaxAmount       float64      `json:"tax_amount"`
	Total           float64      `json:"total"`
	Policy          string       `json:"policy"`
	Classification  string       `json:"classification"`
	Agreement       string       `json:"agreement,omitempty"`
	Rates           []RateResult `json:"rates"`
}

// RateResult is one applied rate for output
type RateResult struct {
	TaxKind  string  `json:"tax_kind"`
	Rate     float64 `json:"rate"`
	Compound bool    `json:"compound"`
	Amount   float64 `json:"amount"`
}

func outputCalcResult(scenario *model.TaxScenario, result *engine.Result) error {
	out := CalcResult{
		Source:          scenario.SourceRegion.Code(),
		Destination:     scenario.DestinationRegion.Code(),
		TransactionType: string(scenario.TransactionType),
		Amount:          calcAmount,
		TaxAmount:       dec.RoundCurrency(result.Tax).InexactFloat64(),
		Total:           dec.RoundCurrency(dec.FromFloat(calcAmount).Add(result.Tax)).InexactFloat64(),
		Policy:          result.Policy.String(),
		Classification:  result.Classification.Kind.String(),
	}
	if result.Classification.Agreement != nil {
		out.Agreement = result.Classification.Agreement.Name
	}
	for _, rate := range result.Applied {
		out.Rates = append(out.Rates, RateResult{
			TaxKind:  string(rate.TaxKind),
			Rate:     rate.Rate,
			Compound: rate.Compound,
			Amount:   dec.RoundCurrency(rate.Amount).InexactFloat64(),
		})
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	case "table":
		return outputCalcTable(out)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputCalcTable(out CalcResult) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Route:\t%s -> %s (%s)\n", out.Source, out.Destination, out.TransactionType)
	fmt.Fprintf(tw, "Policy:\t%s (%s)\n", out.Policy, out.Classification)
	if out.Agreement != "" {
		fmt.Fprintf(tw, "Agreement:\t%s\n", out.Agreement)
	}
	fmt.Fprintf(tw, "Amount:\t%.2f\n", out.Amount)
	fmt.Fprintf(tw, "Tax:\t%.2f\n", out.TaxAmount)
	fmt.Fprintf(tw, "Total:\t%.2f\n", out.Total)
	if len(out.Rates) > 0 {
		fmt.Fprintln(tw, "\nKIND\tRATE\tCOMPOUND\tAMOUNT")
		for _, rate := range out.Rates {
			fmt.Fprintf(tw, "%s\t%.5f\t%v\t%.2f\n", rate.TaxKind, rate.Rate, rate.Compound, rate.Amount)
		}
	}
	return tw.Flush()
}
