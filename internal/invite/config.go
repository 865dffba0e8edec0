package invite

import (
	"fmt"
	"math"
	"strings"
)

// Method selects the distance estimator used for selection.
type Method string

const (
	MethodVincenty  Method = "vincenty"
	MethodSpherical Method = "spherical"
)

// ParseMethod accepts a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodVincenty, "ellipsoidal":
		return MethodVincenty, nil
	case MethodSpherical, "gcd", "great-circle":
		return MethodSpherical, nil
	default:
		return "", fmt.Errorf("unknown method %q (use vincenty or spherical)", s)
	}
}

// FailurePolicy decides what happens to a record whose Vincenty iteration
// does not converge.
type FailurePolicy string

const (
	// PolicyFallback uses the spherical estimate instead.
	PolicyFallback FailurePolicy = "fallback"
	// PolicySkip drops the record.
	PolicySkip FailurePolicy = "skip"
)

// ParseFailurePolicy accepts a policy name, case-insensitively.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyFallback:
		return PolicyFallback, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown convergence failure policy %q (use fallback or skip)", s)
	}
}

// Config holds the selection settings.
type Config struct {
	// Records at or below this distance are invited.
	MaxDistanceKm float64 `mapstructure:"max_distance_km"`

	Method               Method        `mapstructure:"method"`
	OnConvergenceFailure FailurePolicy `mapstructure:"on_convergence_failure"`

	// Compare marks a record as failed when the estimators differ by more than this.
	CompareToleranceKm float64 `mapstructure:"compare_tolerance_km"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		MaxDistanceKm:        100.0,
		Method:               MethodVincenty,
		OnConvergenceFailure: PolicyFallback,
		CompareToleranceKm:   1.0,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if math.IsNaN(c.MaxDistanceKm) || math.IsInf(c.MaxDistanceKm, 0) || c.MaxDistanceKm < 0 {
		return ErrInvalidConfig{Field: "max_distance_km", Reason: "must be a finite non-negative number"}
	}
	if c.Method != MethodVincenty && c.Method != MethodSpherical {
		return ErrInvalidConfig{Field: "method", Reason: "must be vincenty or spherical"}
	}
	if c.OnConvergenceFailure != PolicyFallback && c.OnConvergenceFailure != PolicySkip {
		return ErrInvalidConfig{Field: "on_convergence_failure", Reason: "must be fallback or skip"}
	}
	if math.IsNaN(c.CompareToleranceKm) || c.CompareToleranceKm < 0 {
		return ErrInvalidConfig{Field: "compare_tolerance_km", Reason: "must be non-negative"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
