package geodesy

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
)

var (
	dublinNorth = Coordinate{Latitude: 53.349805, Longitude: -6.260310}
	newYork     = Coordinate{Latitude: 40.712776, Longitude: -74.005974}
)

func TestToRadians(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{0, 0},
		{180, math.Pi},
		{-180, -math.Pi},
		{90, math.Pi / 2},
		{45, math.Pi / 4},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, ToRadians(tt.deg), 1e-15, "ToRadians(%v)", tt.deg)
	}
}

func TestGreatCircleDistance_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		target    Coordinate
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			target:    Dublin,
			wantKm:    0,
			tolerance: 0,
		},
		{
			name:      "Dublin to ~1.2km north",
			target:    dublinNorth,
			wantKm:    1.175,
			tolerance: 0.025,
		},
		{
			name:      "Dublin to New York",
			target:    newYork,
			wantKm:    5125,
			tolerance: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKmSpherical(Dublin, tt.target)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

// TestGreatCircleDistance_Identity exercises the acos clamp: without it some
// coincident points produce NaN.
func TestGreatCircleDistance_Identity(t *testing.T) {
	points := []Coordinate{
		Dublin,
		newYork,
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 180},
		{Latitude: 51.92893, Longitude: -10.27699},
		{Latitude: 12.3456789, Longitude: 98.7654321},
	}

	for _, p := range points {
		got := GreatCircleDistance(p, p, EarthRadiusKm)
		assert.False(t, math.IsNaN(got), "NaN for %s", p)
		assert.Equal(t, 0.0, got, "distance from %s to itself", p)
	}
}

// Rounding leaves the acos argument 1 ulp below 1 for many points, so the
// identity has to hold across the whole globe, not only at nice values.
func TestGreatCircleDistance_IdentityGrid(t *testing.T) {
	nonZero := 0
	for lat := -90.0; lat <= 90; lat += 0.37 {
		for lon := -180.0; lon <= 180; lon += 0.71 {
			p := Coordinate{Latitude: lat, Longitude: lon}
			if GreatCircleDistance(p, p, EarthRadiusKm) != 0 {
				nonZero++
			}
		}
	}
	assert.Zero(t, nonZero)

	assert.Equal(t, 0.0, DistanceKmSpherical(
		Coordinate{Latitude: 53.3, Longitude: -6.2},
		Coordinate{Latitude: 53.3, Longitude: -6.2},
	))
}

func TestGreatCircleDistance_SymmetryAndSign(t *testing.T) {
	pairs := [][2]Coordinate{
		{Dublin, newYork},
		{{Latitude: 25.0, Longitude: 121.0}, {Latitude: 26.0, Longitude: 122.0}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
	}

	for _, p := range pairs {
		d1 := DistanceKmSpherical(p[0], p[1])
		d2 := DistanceKmSpherical(p[1], p[0])
		assert.InDelta(t, d1, d2, 1e-9)
		assert.GreaterOrEqual(t, d1, 0.0)
	}
}

// TestGreatCircleDistance_MatchesS2 cross-checks against the s2 library,
// which computes the same central angle with a different formula.
func TestGreatCircleDistance_MatchesS2(t *testing.T) {
	pairs := [][2]Coordinate{
		{Dublin, dublinNorth},
		{Dublin, newYork},
		{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 90}},
		{{Latitude: 10, Longitude: 20}, {Latitude: 30, Longitude: 40}},
		{{Latitude: -45, Longitude: 170}, {Latitude: 45, Longitude: -170}},
	}

	for _, p := range pairs {
		want := s2.LatLngFromDegrees(p[0].Latitude, p[0].Longitude).
			Distance(s2.LatLngFromDegrees(p[1].Latitude, p[1].Longitude)).
			Radians() * EarthRadiusKm
		got := DistanceKmSpherical(p[0], p[1])
		assert.InDelta(t, want, got, 1e-3, "%s -> %s", p[0], p[1])
	}
}

func TestGreatCircleDistance_NaNPropagates(t *testing.T) {
	got := DistanceKmSpherical(Dublin, Coordinate{Latitude: math.NaN(), Longitude: 0})
	assert.True(t, math.IsNaN(got))
}
