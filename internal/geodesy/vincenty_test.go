package geodesy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/geodesic"
)

// antipode returns the point diametrically opposite c.
func antipode(c Coordinate) Coordinate {
	lon := c.Longitude + 180
	if lon > 180 {
		lon -= 360
	}
	return Coordinate{Latitude: -c.Latitude, Longitude: lon}
}

func TestVincenty_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		origin     Coordinate
		target     Coordinate
		wantMeters float64
		tolerance  float64
	}{
		{
			name:       "Dublin to ~1.2km north",
			origin:     Dublin,
			target:     dublinNorth,
			wantMeters: 1168.25,
			tolerance:  1,
		},
		{
			name:       "Dublin to New York",
			origin:     Dublin,
			target:     newYork,
			wantMeters: 5128927.5,
			tolerance:  5,
		},
		{
			name:       "quarter of the equator",
			origin:     Coordinate{Latitude: 0, Longitude: 0},
			target:     Coordinate{Latitude: 0, Longitude: 90},
			wantMeters: 10018754.171,
			tolerance:  0.01,
		},
		{
			name:       "pole to pole along a meridian",
			origin:     Coordinate{Latitude: 90, Longitude: 0},
			target:     Coordinate{Latitude: -90, Longitude: 0},
			wantMeters: 20003931.459,
			tolerance:  0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VincentyDistance(tt.origin, tt.target, WGS84, DefaultConvergence)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMeters, got, tt.tolerance)
		})
	}
}

// TestVincenty_MatchesKarney compares against GeographicLib's algorithm,
// which is accurate to a few nanometres on WGS84.
func TestVincenty_MatchesKarney(t *testing.T) {
	pairs := [][2]Coordinate{
		{Dublin, dublinNorth},
		{Dublin, newYork},
		{Dublin, {Latitude: 52.986375, Longitude: -6.043701}},
		{Dublin, {Latitude: 51.92893, Longitude: -10.27699}},
		{{Latitude: 10, Longitude: 20}, {Latitude: 30, Longitude: 40}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
		{{Latitude: 60, Longitude: -120}, {Latitude: -20, Longitude: 30}},
		{{Latitude: 0, Longitude: -30}, {Latitude: 0, Longitude: 30}},
	}

	for _, p := range pairs {
		var want float64
		geodesic.WGS84.Inverse(p[0].Latitude, p[0].Longitude, p[1].Latitude, p[1].Longitude, &want, nil, nil)

		got, err := DistanceMetersVincenty(p[0], p[1])
		require.NoError(t, err, "%s -> %s", p[0], p[1])
		assert.InDelta(t, want, got, 0.01, "%s -> %s", p[0], p[1])
	}
}

func TestVincenty_Identity(t *testing.T) {
	points := []Coordinate{
		Dublin,
		newYork,
		{Latitude: 0, Longitude: 0},
		{Latitude: 45, Longitude: 10},
		{Latitude: -89.5, Longitude: -179.5},
	}

	for _, p := range points {
		s, err := Vincenty(p, p, WGS84, DefaultConvergence)
		require.NoError(t, err)
		assert.Equal(t, 0.0, s.Meters, "distance from %s to itself", p)
		assert.Equal(t, 1, s.Iterations)
	}
}

func TestVincenty_Symmetry(t *testing.T) {
	pairs := [][2]Coordinate{
		{Dublin, newYork},
		{Dublin, dublinNorth},
		{{Latitude: 10, Longitude: 20}, {Latitude: 30, Longitude: 40}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 35.6762, Longitude: 139.6503}},
	}

	for _, p := range pairs {
		d1, err := DistanceMetersVincenty(p[0], p[1])
		require.NoError(t, err)
		d2, err := DistanceMetersVincenty(p[1], p[0])
		require.NoError(t, err)
		assert.InDelta(t, d1, d2, 1e-3, "%s <-> %s", p[0], p[1])
	}
}

func TestVincenty_NonNegative(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 20 {
		for lon := -170.0; lon <= 170; lon += 34 {
			target := Coordinate{Latitude: lat, Longitude: lon}
			d, err := DistanceMetersVincenty(Dublin, target)
			if errors.Is(err, ErrNoConvergence) {
				continue
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, d, 0.0, "Dublin -> %s", target)
		}
	}
}

// TestVincenty_AgreesWithSphericalNearby checks that the estimators stay
// within 10 km of each other below ~1000 km.
func TestVincenty_AgreesWithSphericalNearby(t *testing.T) {
	targets := []Coordinate{
		dublinNorth,
		{Latitude: 52.986375, Longitude: -6.043701},
		{Latitude: 51.92893, Longitude: -10.27699},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 48.8566, Longitude: 2.3522},
		{Latitude: 55.9533, Longitude: -3.1883},
	}

	for _, target := range targets {
		sphericalKm := DistanceKmSpherical(Dublin, target)
		require.Less(t, sphericalKm, 1000.0)

		meters, err := DistanceMetersVincenty(Dublin, target)
		require.NoError(t, err)
		assert.Less(t, math.Abs(sphericalKm*1000-meters), 10000.0, "Dublin -> %s", target)
	}
}

// TestVincenty_DublinNewYork checks both estimators land in the same band.
// The sphere undershoots the ellipsoid by roughly 14 km on this route.
func TestVincenty_DublinNewYork(t *testing.T) {
	meters, err := DistanceMetersVincenty(Dublin, newYork)
	require.NoError(t, err)
	vincentyKm := meters / 1000
	sphericalKm := DistanceKmSpherical(Dublin, newYork)

	assert.GreaterOrEqual(t, vincentyKm, 5100.0)
	assert.LessOrEqual(t, vincentyKm, 5150.0)
	assert.GreaterOrEqual(t, sphericalKm, 5100.0)
	assert.LessOrEqual(t, sphericalKm, 5150.0)
	assert.Less(t, math.Abs(vincentyKm-sphericalKm), 20.0)
}

func TestVincenty_AntipodalFailsToConverge(t *testing.T) {
	target := antipode(Dublin)

	s, err := Vincenty(Dublin, target, WGS84, DefaultConvergence)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))

	var convErr *ConvergenceError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, DefaultMaxIterations, convErr.Iterations)
	assert.Equal(t, DefaultMaxIterations, s.Iterations)
	assert.Equal(t, Dublin, convErr.Origin)
	assert.Equal(t, target, convErr.Target)
	assert.Greater(t, convErr.Delta, DefaultTolerance)
	assert.Contains(t, err.Error(), "200 iterations")
}

func TestVincenty_IterationCapIsHonoured(t *testing.T) {
	for _, limit := range []int{1, 2, 3} {
		s, err := Vincenty(Dublin, newYork, WGS84, ConvergenceConfig{Tolerance: 1e-15, MaxIterations: limit})
		require.ErrorIs(t, err, ErrNoConvergence)
		assert.Equal(t, limit, s.Iterations)
	}
}

func TestVincenty_ZeroConfigUsesDefaults(t *testing.T) {
	want, err := Vincenty(Dublin, newYork, WGS84, DefaultConvergence)
	require.NoError(t, err)

	got, err := Vincenty(Dublin, newYork, WGS84, ConvergenceConfig{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVincenty_InvalidToleranceUsesDefault(t *testing.T) {
	want, err := Vincenty(Dublin, newYork, WGS84, DefaultConvergence)
	require.NoError(t, err)

	for _, tol := range []float64{math.NaN(), -1e-9, 0} {
		got, err := Vincenty(Dublin, newYork, WGS84, ConvergenceConfig{Tolerance: tol, MaxIterations: DefaultMaxIterations})
		require.NoError(t, err, "tolerance %v", tol)
		assert.Equal(t, want, got, "tolerance %v", tol)
		assert.Positive(t, got.Iterations)
	}
}

func TestVincenty_EquatorialLine(t *testing.T) {
	s, err := Vincenty(
		Coordinate{Latitude: 0, Longitude: -30},
		Coordinate{Latitude: 0, Longitude: 30},
		WGS84, DefaultConvergence,
	)
	require.NoError(t, err)
	// 60 degrees of equator: a * pi / 3.
	assert.InDelta(t, WGS84SemiMajor*math.Pi/3, s.Meters, 0.01)
}

func TestNewEllipsoid(t *testing.T) {
	e := NewEllipsoid(WGS84SemiMajor, WGS84SemiMinor, WGS84InverseFlattening)
	assert.Equal(t, WGS84, e)
	assert.InDelta(t, (e.SemiMajor-e.SemiMinor)/e.SemiMajor, e.Flattening, 1e-12)
}
