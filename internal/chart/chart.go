package chart

import (
	"fmt"

	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

// Scale maps profile coordinates (distance km, elevation m) to chart pixels.
// The y axis is inverted: higher elevation draws higher on screen.
type Scale struct {
	WidthPx  float64
	HeightPx float64

	minDist, maxDist float64
	minElev, maxElev float64
	degenerate       bool
}

// NewScale fits the profile into a widthPx x heightPx box. A flat or empty
// profile is marked degenerate and draws as a mid-height line instead of
// dividing by zero.
func NewScale(profile []sampler.SamplePoint, widthPx, heightPx float64) Scale {
	s := Scale{WidthPx: widthPx, HeightPx: heightPx, degenerate: true}
	if len(profile) == 0 {
		return s
	}

	s.minDist = profile[0].DistanceKm
	s.maxDist = profile[len(profile)-1].DistanceKm
	s.minElev = profile[0].ElevationM
	s.maxElev = profile[0].ElevationM
	for _, p := range profile {
		if p.ElevationM < s.minElev {
			s.minElev = p.ElevationM
		}
		if p.ElevationM > s.maxElev {
			s.maxElev = p.ElevationM
		}
	}
	s.degenerate = s.maxElev-s.minElev <= 0 || s.maxDist-s.minDist <= 0
	return s
}

// X maps a distance along the route to a pixel column.
func (s Scale) X(distKm float64) float64 {
	if s.maxDist-s.minDist <= 0 {
		return 0
	}
	return (distKm - s.minDist) / (s.maxDist - s.minDist) * s.WidthPx
}

// Y maps an elevation to a pixel row, top of chart being 0.
func (s Scale) Y(elevM float64) float64 {
	if s.degenerate {
		return s.HeightPx / 2
	}
	return (s.maxElev - elevM) / (s.maxElev - s.minElev) * s.HeightPx
}

// DistanceAt inverts X, clamping to the profile extent.
func (s Scale) DistanceAt(xPx float64) float64 {
	if s.WidthPx <= 0 {
		return s.minDist
	}
	if xPx < 0 {
		xPx = 0
	}
	if xPx > s.WidthPx {
		xPx = s.WidthPx
	}
	return s.minDist + xPx/s.WidthPx*(s.maxDist-s.minDist)
}

// Label is a waypoint caption on the x axis.
type Label struct {
	Text       string
	CenterX    float64
	WidthPx    float64
	RightAlign bool
}

// WaypointLabels builds distance captions for the profile's waypoints and
// drops, left to right, any caption whose box would overlap the previously
// kept one. The last caption is right-aligned so it cannot overflow the
// chart's right edge, and is exempt from the centered-box rule.
func WaypointLabels(profile []sampler.SamplePoint, s Scale, charWidthPx float64) []Label {
	var raw []Label
	for _, p := range profile {
		if !p.IsWaypoint {
			continue
		}
		text := fmt.Sprintf("%.2f", p.DistanceKm)
		raw = append(raw, Label{
			Text:    text,
			CenterX: s.X(p.DistanceKm),
			WidthPx: float64(len([]rune(text))) * charWidthPx,
		})
	}
	if len(raw) == 0 {
		return nil
	}
	raw[len(raw)-1].RightAlign = true

	var kept []Label
	prevRight := -1.0
	for _, l := range raw {
		left := l.CenterX - l.WidthPx/2
		if l.RightAlign {
			left = l.CenterX - l.WidthPx
		}
		if left <= prevRight {
			continue
		}
		kept = append(kept, l)
		prevRight = left + l.WidthPx
	}
	return kept
}

// PlaceTooltip picks the tooltip's top-left corner near the pointer,
// flipping horizontally and/or vertically when the default right-below
// placement would overflow the chart bounds.
func PlaceTooltip(pointerX, pointerY, tipW, tipH, boundsW, boundsH, offset float64) (x, y float64) {
	x = pointerX + offset
	if x+tipW > boundsW {
		x = pointerX - offset - tipW
	}
	y = pointerY + offset
	if y+tipH > boundsH {
		y = pointerY - offset - tipH
	}
	return x, y
}

// TooltipText formats a hover readout: whole meters, two-decimal kilometers.
func TooltipText(elevationM, distanceKm float64) string {
	return fmt.Sprintf("%.0f м, %.2f км", elevationM, distanceKm)
}
