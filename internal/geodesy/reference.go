package geodesy

// Dublin is the default reference origin.
var Dublin = Coordinate{Latitude: 53.339428, Longitude: -6.257664}

// ReferencePoint binds both estimators to a fixed origin. It is read-only
// after construction and may be shared between goroutines.
type ReferencePoint struct {
	origin        Coordinate
	ellipsoid     Ellipsoid
	convergence   ConvergenceConfig
	earthRadiusKm float64
}

// Option configures a ReferencePoint.
type Option func(*ReferencePoint)

// WithEllipsoid overrides the WGS84 default.
func WithEllipsoid(e Ellipsoid) Option {
	return func(r *ReferencePoint) { r.ellipsoid = e }
}

// WithConvergence overrides DefaultConvergence.
func WithConvergence(cfg ConvergenceConfig) Option {
	return func(r *ReferencePoint) { r.convergence = cfg.withDefaults() }
}

// WithEarthRadiusKm overrides the radius used by the spherical estimator.
func WithEarthRadiusKm(radius float64) Option {
	return func(r *ReferencePoint) {
		if radius > 0 {
			r.earthRadiusKm = radius
		}
	}
}

// NewReferencePoint creates a distance service anchored at origin.
func NewReferencePoint(origin Coordinate, opts ...Option) *ReferencePoint {
	r := &ReferencePoint{
		origin:        origin,
		ellipsoid:     WGS84,
		convergence:   DefaultConvergence,
		earthRadiusKm: EarthRadiusKm,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Origin returns the bound origin.
func (r *ReferencePoint) Origin() Coordinate { return r.origin }

// Ellipsoid returns the bound ellipsoid.
func (r *ReferencePoint) Ellipsoid() Ellipsoid { return r.ellipsoid }

// Convergence returns the iteration settings.
func (r *ReferencePoint) Convergence() ConvergenceConfig { return r.convergence }

// Solve runs Vincenty from the origin to target.
func (r *ReferencePoint) Solve(target Coordinate) (Solution, error) {
	return Vincenty(r.origin, target, r.ellipsoid, r.convergence)
}

// DistanceKm returns the ellipsoidal distance to target in kilometres.
func (r *ReferencePoint) DistanceKm(target Coordinate) (float64, error) {
	s, err := r.Solve(target)
	if err != nil {
		return 0, err
	}
	return s.Kilometers(), nil
}

// DistanceKmSpherical returns the great-circle distance to target in kilometres.
func (r *ReferencePoint) DistanceKmSpherical(target Coordinate) float64 {
	return GreatCircleDistance(r.origin, target, r.earthRadiusKm)
}

// Rebase returns a copy bound to a different origin with the same settings.
func (r *ReferencePoint) Rebase(origin Coordinate) *ReferencePoint {
	clone := *r
	clone.origin = origin
	return &clone
}
