package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kosarica/invite-service/internal/invite"
)

var (
	compareInput     inputFlags
	compareOrigin    originFlags
	compareTolerance float64
	compareOutput    string
	compareStrict    bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <file>",
	Short: "Cross-check the spherical and Vincenty estimates for every customer",
	Long: `Measure every customer with both the spherical great-circle formula and
Vincenty's ellipsoidal formula and report whether they agree within the
tolerance. Disagreement grows with distance, so far-away customers are
expected to fail at the default 1 km tolerance.`,
	Example: `  invite-service compare customers.json
  invite-service compare customers.json --tolerance 0.5 --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareInput.register(compareCmd)
	compareOrigin.register(compareCmd)
	compareCmd.Flags().Float64Var(&compareTolerance, "tolerance", 0, "Allowed difference in km (default from config: 1)")
	compareCmd.Flags().StringVar(&compareOutput, "output", "text", "Output format: text or json")
	compareCmd.Flags().BoolVar(&compareStrict, "strict", false, "Exit with an error when any record fails")
}

func runCompare(cmd *cobra.Command, args []string) error {
	inviteCfg := cfg.InviteConfig()
	if cmd.Flags().Changed("tolerance") {
		inviteCfg.CompareToleranceKm = compareTolerance
	}
	if err := inviteCfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	origin, err := compareOrigin.origin(cmd)
	if err != nil {
		return err
	}

	read, err := readCustomers(args[0], compareInput)
	if err != nil {
		return err
	}

	comparison, err := newService(origin, inviteCfg).Compare(cmd.Context(), read.Customers)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	switch strings.ToLower(compareOutput) {
	case "text":
		err = invite.WriteComparison(os.Stdout, comparison)
	case "json":
		err = invite.WriteJSON(os.Stdout, comparison)
	default:
		return fmt.Errorf("invalid output format: %s (use 'text' or 'json')", compareOutput)
	}
	if err != nil {
		return err
	}

	if compareStrict && comparison.Failed > 0 {
		return fmt.Errorf("%d of %d records outside %.3f km tolerance", comparison.Failed, len(comparison.Rows), comparison.ToleranceKm)
	}
	return nil
}
