package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kosarica/invite-service/config"
	"github.com/kosarica/invite-service/internal/geodesy"
	"github.com/kosarica/invite-service/internal/invite"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
	logger   *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "invite-service",
	Short: "Invite Service CLI - pick the customers close enough to invite",
	Long: `A CLI for measuring geodesic distances from a reference point (Dublin by
default) and selecting the customers within an invitation radius. Distances
come from Vincenty's inverse formula on the WGS-84 ellipsoid, with the
spherical great-circle formula available for comparison and as a fallback.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
}

// persistentPreRun loads config and initializes the logger before each command
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger = initLogger()
	log.Logger = *logger

	return nil
}

// initLogger writes to stderr so command output on stdout stays clean.
func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	var output io.Writer
	if cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg.Logging.NoColor}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &l
}

// newService builds the invite service from config, optionally re-anchored.
func newService(origin *geodesy.Coordinate, inviteCfg *invite.Config) *invite.Service {
	ref := cfg.ReferencePoint()
	if origin != nil {
		ref = ref.Rebase(*origin)
	}
	return invite.NewService(ref, inviteCfg,
		invite.WithLogger(logger.With().Str("component", "invite_service").Logger()))
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
