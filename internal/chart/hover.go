package chart

import (
	"sort"

	"github.com/Paskordnikk/Strekoza/internal/geo"
	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

// HoverPoint is an exact position along the profile, interpolated between
// neighboring samples.
type HoverPoint struct {
	DistanceKm float64 `json:"distance_km"`
	ElevationM float64 `json:"elevation_m"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// HoverAt maps a pixel column on the chart to a point along the profile:
// inverse x-scale, then linear interpolation of the neighboring samples'
// elevation and coordinates.
func HoverAt(profile []sampler.SamplePoint, s Scale, xPx float64) (HoverPoint, bool) {
	if len(profile) == 0 {
		return HoverPoint{}, false
	}
	dist := s.DistanceAt(xPx)

	i := sort.Search(len(profile), func(i int) bool {
		return profile[i].DistanceKm >= dist
	})
	if i == 0 {
		return samplePointHover(profile[0]), true
	}
	if i == len(profile) {
		return samplePointHover(profile[len(profile)-1]), true
	}

	a, b := profile[i-1], profile[i]
	span := b.DistanceKm - a.DistanceKm
	if span <= 0 {
		return samplePointHover(a), true
	}
	frac := (dist - a.DistanceKm) / span
	return lerpHover(a, b, frac, dist), true
}

// NearestOnRoute projects a geographic position onto every profile segment
// and keeps the globally closest projection. Returns the interpolated hover
// point and the distance in meters from pos to the route.
func NearestOnRoute(profile []sampler.SamplePoint, pos geo.Point) (HoverPoint, float64, bool) {
	if len(profile) < 2 {
		return HoverPoint{}, 0, false
	}

	best := HoverPoint{}
	bestDistM := -1.0
	for i := 0; i < len(profile)-1; i++ {
		a, b := profile[i], profile[i+1]
		frac, on, distM := geo.ProjectOntoSegment(pos,
			geo.Point{Lat: a.Lat, Lng: a.Lng},
			geo.Point{Lat: b.Lat, Lng: b.Lng})
		if bestDistM >= 0 && distM >= bestDistM {
			continue
		}
		bestDistM = distM
		hp := lerpHover(a, b, frac, a.DistanceKm+frac*(b.DistanceKm-a.DistanceKm))
		hp.Lat, hp.Lng = on.Lat, on.Lng
		best = hp
	}
	return best, bestDistM, true
}

// defaultMinMoveM suppresses hover updates for near-stationary pointer
// motion, trading a little responsiveness for much less re-render work.
const defaultMinMoveM = 10.0

// HoverTracker is the stateful side of map-to-chart hover: it drops updates
// whose pointer moved less than MinMoveM meters since the last accepted one.
type HoverTracker struct {
	MinMoveM float64

	last    geo.Point
	hasLast bool
}

// Update returns the hover point for pos, or false when the movement since
// the last accepted position is below the threshold.
func (t *HoverTracker) Update(profile []sampler.SamplePoint, pos geo.Point) (HoverPoint, bool) {
	minMove := t.MinMoveM
	if minMove <= 0 {
		minMove = defaultMinMoveM
	}
	if t.hasLast && geo.HaversineKm(t.last.Lat, t.last.Lng, pos.Lat, pos.Lng)*1000 < minMove {
		return HoverPoint{}, false
	}

	hp, _, ok := NearestOnRoute(profile, pos)
	if !ok {
		return HoverPoint{}, false
	}
	t.last = pos
	t.hasLast = true
	return hp, true
}

func samplePointHover(p sampler.SamplePoint) HoverPoint {
	return HoverPoint{DistanceKm: p.DistanceKm, ElevationM: p.ElevationM, Lat: p.Lat, Lng: p.Lng}
}

func lerpHover(a, b sampler.SamplePoint, frac, dist float64) HoverPoint {
	return HoverPoint{
		DistanceKm: dist,
		ElevationM: a.ElevationM + (b.ElevationM-a.ElevationM)*frac,
		Lat:        a.Lat + (b.Lat-a.Lat)*frac,
		Lng:        a.Lng + (b.Lng-a.Lng)*frac,
	}
}
