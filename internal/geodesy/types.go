// Package geodesy computes distances between points on the Earth's surface.
//
// Two estimators are provided: a closed-form great-circle distance on a
// sphere (kilometres) and Vincenty's inverse solution on an ellipsoid
// (metres). Both are pure functions and safe for concurrent use.
package geodesy

import (
	"errors"
	"fmt"
)

const (
	// EarthRadiusKm is the mean radius used by the spherical estimator.
	EarthRadiusKm = 6371.0

	// WGS84 defining parameters.
	WGS84SemiMajor         = 6378137.0      // metres, equator
	WGS84SemiMinor         = 6356752.314245 // metres, poles
	WGS84InverseFlattening = 298.257223563

	// DefaultTolerance is the convergence threshold on the lambda term, in radians.
	DefaultTolerance = 1e-9
	// DefaultMaxIterations caps the Vincenty iteration.
	DefaultMaxIterations = 200
)

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String returns the coordinate as "lat,lon".
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// Ellipsoid describes a reference ellipsoid. Flattening is f, not 1/f.
type Ellipsoid struct {
	SemiMajor  float64 // a, metres
	SemiMinor  float64 // b, metres
	Flattening float64 // f = (a-b)/a
}

// NewEllipsoid builds an ellipsoid from its axes and inverse flattening.
func NewEllipsoid(semiMajor, semiMinor, inverseFlattening float64) Ellipsoid {
	return Ellipsoid{
		SemiMajor:  semiMajor,
		SemiMinor:  semiMinor,
		Flattening: 1 / inverseFlattening,
	}
}

// WGS84 is the default reference ellipsoid.
var WGS84 = NewEllipsoid(WGS84SemiMajor, WGS84SemiMinor, WGS84InverseFlattening)

// ConvergenceConfig governs the Vincenty iteration.
type ConvergenceConfig struct {
	Tolerance     float64 // radians
	MaxIterations int
}

// DefaultConvergence is used when a zero ConvergenceConfig is supplied.
var DefaultConvergence = ConvergenceConfig{
	Tolerance:     DefaultTolerance,
	MaxIterations: DefaultMaxIterations,
}

// withDefaults fills non-positive (or NaN) fields from DefaultConvergence.
func (c ConvergenceConfig) withDefaults() ConvergenceConfig {
	if !(c.Tolerance > 0) {
		c.Tolerance = DefaultConvergence.Tolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultConvergence.MaxIterations
	}
	return c
}

// Solution is the outcome of a converged Vincenty computation.
type Solution struct {
	Meters     float64
	Iterations int
}

// Kilometers returns the distance in kilometres.
func (s Solution) Kilometers() float64 {
	return s.Meters / 1000
}

// ErrNoConvergence is the sentinel wrapped by every ConvergenceError.
var ErrNoConvergence = errors.New("vincenty: failed to converge")

// ConvergenceError reports that the lambda iteration exhausted its budget.
// This is expected for nearly antipodal points.
type ConvergenceError struct {
	Origin     Coordinate
	Target     Coordinate
	Iterations int
	Delta      float64 // last |lambda - lambdaPrev|
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("vincenty: no convergence between %s and %s after %d iterations (delta %.3g rad)",
		e.Origin, e.Target, e.Iterations, e.Delta)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}
