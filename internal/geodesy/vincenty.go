package geodesy

import "math"

// Vincenty solves the inverse geodesic problem between origin and target on
// the ellipsoid e using Vincenty's iterative formula.
//
// The lambda term is iterated until successive values differ by less than
// cfg.Tolerance. If that does not happen within cfg.MaxIterations a
// *ConvergenceError is returned; nearly antipodal points are the usual cause.
// Zero fields in cfg fall back to DefaultConvergence.
func Vincenty(origin, target Coordinate, e Ellipsoid, cfg ConvergenceConfig) (Solution, error) {
	cfg = cfg.withDefaults()

	a := e.SemiMajor
	b := e.SemiMinor
	f := e.Flattening

	lat1 := ToRadians(origin.Latitude)
	lat2 := ToRadians(target.Latitude)
	L := ToRadians(target.Longitude) - ToRadians(origin.Longitude)

	// Reduced latitudes.
	u1 := math.Atan((1 - f) * math.Tan(lat1))
	u2 := math.Atan((1 - f) * math.Tan(lat2))
	sinU1, cosU1 := math.Sin(u1), math.Cos(u1)
	sinU2, cosU2 := math.Sin(u2), math.Cos(u2)

	var (
		sinSigma, cosSigma, sigma float64
		cosSqAlpha, cos2SigmaM    float64
	)

	lambda := L
	iterations := 0
	delta := math.Inf(1)

	for delta >= cfg.Tolerance {
		if iterations >= cfg.MaxIterations {
			return Solution{Iterations: iterations}, &ConvergenceError{
				Origin:     origin,
				Target:     target,
				Iterations: iterations,
				Delta:      delta,
			}
		}
		iterations++

		sinLambda, cosLambda := math.Sin(lambda), math.Cos(lambda)

		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		if sinSigma == 0 {
			// Coincident points.
			return Solution{Meters: 0, Iterations: iterations}, nil
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// Equatorial line.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))

		prev := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		delta = math.Abs(lambda - prev)
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return Solution{
		Meters:     b * A * (sigma - deltaSigma),
		Iterations: iterations,
	}, nil
}

// VincentyDistance returns only the distance in metres.
func VincentyDistance(origin, target Coordinate, e Ellipsoid, cfg ConvergenceConfig) (float64, error) {
	s, err := Vincenty(origin, target, e, cfg)
	if err != nil {
		return 0, err
	}
	return s.Meters, nil
}

// DistanceMetersVincenty uses WGS84 and DefaultConvergence.
func DistanceMetersVincenty(origin, target Coordinate) (float64, error) {
	return VincentyDistance(origin, target, WGS84, DefaultConvergence)
}
