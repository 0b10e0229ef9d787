package geo

import "math"

// EarthRadiusM is the spherical earth radius used by all calculations here.
// This is an accepted approximation, not a WGS84 geodesic.
const EarthRadiusM = 6371000.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusM / 1000 * c
}

// Bearing returns the initial bearing from A to B in degrees, [0,360).
func Bearing(latA, lngA, latB, lngB float64) float64 {
	phi1 := rad(latA)
	phi2 := rad(latB)
	dLng := rad(lngB - lngA)

	y := math.Sin(dLng) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLng)
	theta := math.Atan2(y, x)
	return math.Mod(deg(theta)+360, 360)
}

// DestinationPoint projects a point along the given initial bearing for
// distanceM meters on the sphere (standard direct formula).
func DestinationPoint(lat, lng, bearingDeg, distanceM float64) Point {
	delta := distanceM / EarthRadiusM
	theta := rad(bearingDeg)
	phi1 := rad(lat)
	lambda1 := rad(lng)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) +
		math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return Point{Lat: deg(phi2), Lng: normalizeLng(deg(lambda2))}
}

// ProjectOntoSegment projects p onto the great-circle segment a-b and returns
// the clamped fraction along the segment, the projected point and the
// distance in meters from p to that point. Fraction 0 means a, 1 means b.
func ProjectOntoSegment(p, a, b Point) (frac float64, onSeg Point, distM float64) {
	segKm := HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
	if segKm == 0 {
		return 0, a, HaversineKm(p.Lat, p.Lng, a.Lat, a.Lng) * 1000
	}

	// Along-track distance via bearings from the segment start.
	bearingAB := Bearing(a.Lat, a.Lng, b.Lat, b.Lng)
	bearingAP := Bearing(a.Lat, a.Lng, p.Lat, p.Lng)
	apKm := HaversineKm(a.Lat, a.Lng, p.Lat, p.Lng)
	alongKm := apKm * math.Cos(rad(bearingAP-bearingAB))

	frac = alongKm / segKm
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}

	onSeg = DestinationPoint(a.Lat, a.Lng, bearingAB, frac*segKm*1000)
	distM = HaversineKm(p.Lat, p.Lng, onSeg.Lat, onSeg.Lng) * 1000
	return frac, onSeg, distM
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

func normalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
