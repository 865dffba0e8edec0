package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kosarica/invite-service/internal/invite"
)

var (
	inviteInput       inputFlags
	inviteOrigin      originFlags
	inviteMaxDistance float64
	inviteMethod      string
	inviteOnFailure   string
	inviteOutput      string
)

// inviteCmd represents the invite command
var inviteCmd = &cobra.Command{
	Use:   "invite <file>",
	Short: "List the customers within the invitation radius",
	Long: `Read customer records and print the ones within the invitation radius of the
reference point, sorted by user id. Malformed records are skipped with a warning.

Input may be JSON lines (one customer object per line), CSV or XLSX with a
header row. Use "-" to read JSON lines from stdin.`,
	Example: `  invite-service invite customers.json
  invite-service invite customers.csv --max-distance 50 --output table
  invite-service invite export.xlsx --sheet Customers --output json
  invite-service invite customers.json --lat 51.8985 --lon -8.4756`,
	Args: cobra.ExactArgs(1),
	RunE: runInvite,
}

func init() {
	rootCmd.AddCommand(inviteCmd)

	inviteInput.register(inviteCmd)
	inviteOrigin.register(inviteCmd)
	inviteCmd.Flags().Float64Var(&inviteMaxDistance, "max-distance", 0, "Invitation radius in km (default from config: 100)")
	inviteCmd.Flags().StringVar(&inviteMethod, "method", "", "Distance method: vincenty or spherical (default from config)")
	inviteCmd.Flags().StringVar(&inviteOnFailure, "on-failure", "", "When Vincenty does not converge: fallback or skip (default from config)")
	inviteCmd.Flags().StringVar(&inviteOutput, "output", "text", "Output format: text, table or json")
}

func runInvite(cmd *cobra.Command, args []string) error {
	inviteCfg := cfg.InviteConfig()
	if cmd.Flags().Changed("max-distance") {
		inviteCfg.MaxDistanceKm = inviteMaxDistance
	}
	if inviteMethod != "" {
		method, err := invite.ParseMethod(inviteMethod)
		if err != nil {
			return err
		}
		inviteCfg.Method = method
	}
	if inviteOnFailure != "" {
		policy, err := invite.ParseFailurePolicy(inviteOnFailure)
		if err != nil {
			return err
		}
		inviteCfg.OnConvergenceFailure = policy
	}
	if err := inviteCfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	origin, err := inviteOrigin.origin(cmd)
	if err != nil {
		return err
	}

	read, err := readCustomers(args[0], inviteInput)
	if err != nil {
		return err
	}

	svc := newService(origin, inviteCfg)
	result, err := svc.Select(cmd.Context(), read.Customers)
	if err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}

	logger.Info().
		Str("origin", svc.Reference().Origin().String()).
		Int("considered", result.Considered).
		Int("invited", len(result.Invited)).
		Int("fallbacks", result.Fallbacks).
		Int("skipped", result.Skipped).
		Msg("Selection complete")

	switch strings.ToLower(inviteOutput) {
	case "text":
		return invite.WriteText(os.Stdout, result.Invited)
	case "table":
		if len(result.Invited) == 0 {
			fmt.Println("No customers within range")
			return nil
		}
		return invite.WriteTable(os.Stdout, result.Invited)
	case "json":
		return invite.WriteJSON(os.Stdout, result)
	default:
		return fmt.Errorf("invalid output format: %s (use 'text', 'table' or 'json')", inviteOutput)
	}
}
