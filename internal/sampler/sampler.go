package sampler

import (
	"context"
	"math"
	"sort"

	"github.com/Paskordnikk/Strekoza/internal/geo"
)

// Steps are the allowed sample step sizes in meters.
var Steps = []int{25, 50, 100, 250, 500, 1000}

// ValidStep reports whether stepM is one of the allowed step sizes.
func ValidStep(stepM int) bool {
	for _, s := range Steps {
		if s == stepM {
			return true
		}
	}
	return false
}

// SamplePoint is a point along the route at which elevation is queried.
// Distance is cumulative from the route start, in kilometers.
type SamplePoint struct {
	DistanceKm float64 `json:"distance_km"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	IsWaypoint bool    `json:"is_waypoint"`
	ElevationM float64 `json:"elevation_m"`
}

// yieldEvery controls how often SampleContext checks for cancellation and
// reports progress while generating points.
const yieldEvery = 50

// Sample walks consecutive waypoint pairs and emits sample points at every
// multiple of stepM meters measured from the global route start, so spacing
// stays step-aligned across segment boundaries. Segment endpoints are always
// emitted and tagged as waypoints. Fewer than two waypoints is a no-op.
func Sample(waypoints []geo.Point, stepM int) []SamplePoint {
	out, _ := SampleContext(context.Background(), waypoints, stepM, nil)
	return out
}

// SampleContext is Sample with cooperative cancellation: every few dozen
// generated points it checks ctx and invokes progress (if non-nil) with the
// number of points produced so far.
func SampleContext(ctx context.Context, waypoints []geo.Point, stepM int, progress func(generated int)) ([]SamplePoint, error) {
	if len(waypoints) < 2 || stepM <= 0 {
		return nil, nil
	}
	stepKm := float64(stepM) / 1000

	var points []SamplePoint
	emit := func(p SamplePoint) error {
		points = append(points, p)
		if len(points)%yieldEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if progress != nil {
				progress(len(points))
			}
		}
		return nil
	}

	cumKm := 0.0
	if err := emit(SamplePoint{DistanceKm: 0, Lat: waypoints[0].Lat, Lng: waypoints[0].Lng, IsWaypoint: true}); err != nil {
		return nil, err
	}

	for i := 0; i < len(waypoints)-1; i++ {
		a, b := waypoints[i], waypoints[i+1]
		segKm := geo.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
		if segKm == 0 {
			continue
		}
		brg := geo.Bearing(a.Lat, a.Lng, b.Lat, b.Lng)
		segStart := cumKm
		segEnd := cumKm + segKm

		// First global step multiple strictly inside this segment.
		for n := math.Floor(segStart/stepKm) + 1; n*stepKm < segEnd; n++ {
			d := n * stepKm
			p := geo.DestinationPoint(a.Lat, a.Lng, brg, (d-segStart)*1000)
			if err := emit(SamplePoint{DistanceKm: d, Lat: p.Lat, Lng: p.Lng}); err != nil {
				return nil, err
			}
		}

		cumKm = segEnd
		if err := emit(SamplePoint{DistanceKm: cumKm, Lat: b.Lat, Lng: b.Lng, IsWaypoint: true}); err != nil {
			return nil, err
		}
	}

	if progress != nil {
		progress(len(points))
	}
	return dedupe(points), nil
}

// dedupe collapses points sharing an exact distance key, preferring the
// waypoint-tagged entry, and restores ascending distance order. The key map
// loses insertion order once duplicates collapse, hence the sort.
func dedupe(points []SamplePoint) []SamplePoint {
	byDistance := make(map[float64]SamplePoint, len(points))
	for _, p := range points {
		if prev, ok := byDistance[p.DistanceKm]; ok && prev.IsWaypoint {
			continue
		}
		byDistance[p.DistanceKm] = p
	}

	out := make([]SamplePoint, 0, len(byDistance))
	for _, p := range byDistance {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// Densify returns vertices along the route with no gap longer than maxSegM
// meters. This is the lightweight variant of sampling used for drawing
// smooth geodesic polylines and wide hover-capture lines, where visual
// smoothness matters and step alignment does not.
func Densify(waypoints []geo.Point, maxSegM float64) []geo.Point {
	if len(waypoints) < 2 {
		return append([]geo.Point(nil), waypoints...)
	}
	if maxSegM <= 0 {
		maxSegM = 1000
	}

	out := []geo.Point{waypoints[0]}
	for i := 0; i < len(waypoints)-1; i++ {
		a, b := waypoints[i], waypoints[i+1]
		segM := geo.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng) * 1000
		if segM == 0 {
			continue
		}
		brg := geo.Bearing(a.Lat, a.Lng, b.Lat, b.Lng)
		parts := int(math.Ceil(segM / maxSegM))
		for j := 1; j < parts; j++ {
			out = append(out, geo.DestinationPoint(a.Lat, a.Lng, brg, segM*float64(j)/float64(parts)))
		}
		out = append(out, b)
	}
	return out
}

// TotalDistanceKm sums consecutive waypoint great-circle distances.
func TotalDistanceKm(waypoints []geo.Point) float64 {
	total := 0.0
	for i := 0; i < len(waypoints)-1; i++ {
		total += geo.HaversineKm(waypoints[i].Lat, waypoints[i].Lng, waypoints[i+1].Lat, waypoints[i+1].Lng)
	}
	return total
}
