package geodesy

import "math"

// GreatCircleDistance returns the distance in kilometres between two points
// on a sphere of the given radius, using the spherical law of cosines.
//
// Coincident points return exactly 0. Otherwise the acos argument can round
// to 1 ulp below 1 and yield a few centimetres, or above 1 and yield NaN,
// hence the clamp.
func GreatCircleDistance(origin, target Coordinate, earthRadiusKm float64) float64 {
	lat1 := ToRadians(origin.Latitude)
	lon1 := ToRadians(origin.Longitude)
	lat2 := ToRadians(target.Latitude)
	lon2 := ToRadians(target.Longitude)

	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	cosAngle := math.Sin(lat1)*math.Sin(lat2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Cos(math.Abs(lon1-lon2))
	angle := math.Acos(clamp(cosAngle, -1, 1))

	return math.Abs(earthRadiusKm * angle)
}

// DistanceKmSpherical is GreatCircleDistance with the mean Earth radius.
func DistanceKmSpherical(origin, target Coordinate) float64 {
	return GreatCircleDistance(origin, target, EarthRadiusKm)
}
