package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kosarica/invite-service/internal/geodesy"
	"github.com/kosarica/invite-service/internal/invite"
)

var (
	distanceFrom   string
	distanceOutput string
)

// distanceCmd represents the distance command
var distanceCmd = &cobra.Command{
	Use:   "distance <lat> <lon>",
	Short: "Measure the distance from the reference point to a coordinate",
	Example: `  invite-service distance 40.7128 -74.0060
  invite-service distance --from 51.5074,-0.1278 --output json -- -33.8688 151.2093`,
	Args: cobra.ExactArgs(2),
	RunE: runDistance,
}

func init() {
	rootCmd.AddCommand(distanceCmd)

	distanceCmd.Flags().StringVar(&distanceFrom, "from", "", "Origin as lat,lon (default: configured reference point)")
	distanceCmd.Flags().StringVar(&distanceOutput, "output", "text", "Output format: text or json")
}

func runDistance(cmd *cobra.Command, args []string) error {
	target, err := parseLatLon(args[0], args[1])
	if err != nil {
		return err
	}

	var origin *geodesy.Coordinate
	if distanceFrom != "" {
		c, err := parseCoordinate(distanceFrom)
		if err != nil {
			return err
		}
		origin = &c
	}

	m, err := newService(origin, cfg.InviteConfig()).Distance(cmd.Context(), target)
	if err != nil {
		return err
	}

	switch strings.ToLower(distanceOutput) {
	case "text":
		fmt.Printf("origin:     %s\n", m.Origin)
		fmt.Printf("target:     %s\n", m.Target)
		fmt.Printf("spherical:  %.6f km\n", m.SphericalKm)
		if m.Converged {
			fmt.Printf("vincenty:   %.6f km (%d iterations)\n", *m.VincentyKm, m.Iterations)
		} else {
			fmt.Printf("vincenty:   no result (%s)\n", m.Error)
		}
		return nil
	case "json":
		return invite.WriteJSON(os.Stdout, m)
	default:
		return fmt.Errorf("invalid output format: %s (use 'text' or 'json')", distanceOutput)
	}
}
