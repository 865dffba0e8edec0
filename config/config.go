package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kosarica/invite-service/internal/geodesy"
	"github.com/kosarica/invite-service/internal/invite"
	"github.com/kosarica/invite-service/internal/telemetry"
)

// EnvPrefix prefixes every environment override, e.g. INVITE_SERVICE_SERVER_PORT.
const EnvPrefix = "INVITE_SERVICE"

// Config holds the application configuration
type Config struct {
	Reference   ReferenceConfig   `mapstructure:"reference"`
	Ellipsoid   EllipsoidConfig   `mapstructure:"ellipsoid"`
	Convergence ConvergenceConfig `mapstructure:"convergence"`
	Invite      InviteConfig      `mapstructure:"invite"`
	Server      ServerConfig      `mapstructure:"server"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// ReferenceConfig is the origin every distance is measured from
type ReferenceConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// EllipsoidConfig holds the ellipsoid parameters used by Vincenty
type EllipsoidConfig struct {
	SemiMajor         float64 `mapstructure:"semi_major"`
	SemiMinor         float64 `mapstructure:"semi_minor"`
	InverseFlattening float64 `mapstructure:"inverse_flattening"`
}

// ConvergenceConfig holds the Vincenty iteration settings
type ConvergenceConfig struct {
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// InviteConfig holds selection settings
type InviteConfig struct {
	invite.Config `mapstructure:",squash"`
	EarthRadiusKm float64 `mapstructure:"earth_radius_km"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	APIKey          string        `mapstructure:"api_key"`
	Mode            string        `mapstructure:"mode"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// TelemetryConfig holds OpenTelemetry exporter settings
type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Endpoint       string        `mapstructure:"endpoint"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	ExportInterval time.Duration `mapstructure:"export_interval"`
}

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found. Existing variables win.
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds the unprefixed variables commonly set by platforms
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "HOST")
	_ = v.BindEnv("server.api_key", EnvPrefix+"_SERVER_API_KEY", "INTERNAL_API_KEY")
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("telemetry.endpoint", EnvPrefix+"_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("telemetry.service_version", EnvPrefix+"_TELEMETRY_SERVICE_VERSION", "VERSION")
	_ = v.BindEnv("telemetry.environment", EnvPrefix+"_TELEMETRY_ENVIRONMENT", "ENVIRONMENT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("reference.latitude", geodesy.Dublin.Latitude)
	v.SetDefault("reference.longitude", geodesy.Dublin.Longitude)

	v.SetDefault("ellipsoid.semi_major", geodesy.WGS84SemiMajor)
	v.SetDefault("ellipsoid.semi_minor", geodesy.WGS84SemiMinor)
	v.SetDefault("ellipsoid.inverse_flattening", geodesy.WGS84InverseFlattening)

	v.SetDefault("convergence.tolerance", geodesy.DefaultTolerance)
	v.SetDefault("convergence.max_iterations", geodesy.DefaultMaxIterations)

	defaults := invite.Defaults()
	v.SetDefault("invite.max_distance_km", defaults.MaxDistanceKm)
	v.SetDefault("invite.method", string(defaults.Method))
	v.SetDefault("invite.on_convergence_failure", string(defaults.OnConvergenceFailure))
	v.SetDefault("invite.compare_tolerance_km", defaults.CompareToleranceKm)
	v.SetDefault("invite.earth_radius_km", geodesy.EarthRadiusKm)

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.mode", "release")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20.0)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "invite-service")
	v.SetDefault("telemetry.service_version", "dev")
	v.SetDefault("telemetry.environment", "production")
	v.SetDefault("telemetry.export_interval", 30*time.Second)
}

// Validate rejects values the engine cannot work with
func (c *Config) Validate() error {
	if !finite(c.Reference.Latitude) || math.Abs(c.Reference.Latitude) > 90 {
		return invite.ErrInvalidConfig{Field: "reference.latitude", Reason: "must be within [-90, 90]"}
	}
	if !finite(c.Reference.Longitude) || math.Abs(c.Reference.Longitude) > 180 {
		return invite.ErrInvalidConfig{Field: "reference.longitude", Reason: "must be within [-180, 180]"}
	}
	if !finite(c.Ellipsoid.SemiMajor) || c.Ellipsoid.SemiMajor <= 0 {
		return invite.ErrInvalidConfig{Field: "ellipsoid.semi_major", Reason: "must be positive"}
	}
	if !finite(c.Ellipsoid.SemiMinor) || c.Ellipsoid.SemiMinor <= 0 || c.Ellipsoid.SemiMinor > c.Ellipsoid.SemiMajor {
		return invite.ErrInvalidConfig{Field: "ellipsoid.semi_minor", Reason: "must be positive and not exceed semi_major"}
	}
	if math.IsNaN(c.Ellipsoid.InverseFlattening) || c.Ellipsoid.InverseFlattening <= 0 {
		return invite.ErrInvalidConfig{Field: "ellipsoid.inverse_flattening", Reason: "must be positive"}
	}
	if !finite(c.Convergence.Tolerance) || c.Convergence.Tolerance <= 0 {
		return invite.ErrInvalidConfig{Field: "convergence.tolerance", Reason: "must be positive"}
	}
	if c.Convergence.MaxIterations < 1 {
		return invite.ErrInvalidConfig{Field: "convergence.max_iterations", Reason: "must be at least 1"}
	}
	if err := c.Invite.Config.Validate(); err != nil {
		var invalid invite.ErrInvalidConfig
		if errors.As(err, &invalid) {
			invalid.Field = "invite." + invalid.Field
			return invalid
		}
		return err
	}
	if !finite(c.Invite.EarthRadiusKm) || c.Invite.EarthRadiusKm <= 0 {
		return invite.ErrInvalidConfig{Field: "invite.earth_radius_km", Reason: "must be positive"}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invite.ErrInvalidConfig{Field: "server.port", Reason: "must be within [1, 65535]"}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return invite.ErrInvalidConfig{Field: "rate_limit", Reason: "requests_per_second and burst must be positive"}
	}
	return nil
}

// Origin returns the configured reference coordinate
func (c *Config) Origin() geodesy.Coordinate {
	return geodesy.Coordinate{Latitude: c.Reference.Latitude, Longitude: c.Reference.Longitude}
}

// ReferencePoint builds the distance service described by the config
func (c *Config) ReferencePoint() *geodesy.ReferencePoint {
	return geodesy.NewReferencePoint(c.Origin(),
		geodesy.WithEllipsoid(geodesy.NewEllipsoid(
			c.Ellipsoid.SemiMajor,
			c.Ellipsoid.SemiMinor,
			c.Ellipsoid.InverseFlattening,
		)),
		geodesy.WithConvergence(geodesy.ConvergenceConfig{
			Tolerance:     c.Convergence.Tolerance,
			MaxIterations: c.Convergence.MaxIterations,
		}),
		geodesy.WithEarthRadiusKm(c.Invite.EarthRadiusKm),
	)
}

// InviteConfig returns a copy of the selection settings
func (c *Config) InviteConfig() *invite.Config {
	cfg := c.Invite.Config
	return &cfg
}

// TelemetryConfig returns the exporter settings tagged with the origin
func (c *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Telemetry.Enabled,
		Endpoint:       c.Telemetry.Endpoint,
		ServiceName:    c.Telemetry.ServiceName,
		ServiceVersion: c.Telemetry.ServiceVersion,
		Environment:    c.Telemetry.Environment,
		ExportInterval: c.Telemetry.ExportInterval,
		Origin:         c.Origin(),
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
