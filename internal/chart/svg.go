package chart

import (
	"fmt"
	"strings"

	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

// RenderSVG draws the elevation profile as a standalone SVG document: filled
// area under the elevation line, baseline, and the surviving waypoint
// captions along the bottom edge.
func RenderSVG(profile []sampler.SamplePoint, widthPx, heightPx float64) string {
	s := NewScale(profile, widthPx, heightPx)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		widthPx, heightPx, widthPx, heightPx)

	if len(profile) > 0 {
		var line strings.Builder
		for i, p := range profile {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&line, "%s%.2f %.2f ", cmd, s.X(p.DistanceKm), s.Y(p.ElevationM))
		}

		area := line.String() + fmt.Sprintf("L%.2f %.2f L%.2f %.2f Z",
			s.X(profile[len(profile)-1].DistanceKm), heightPx, s.X(profile[0].DistanceKm), heightPx)
		fmt.Fprintf(&b, `<path d="%s" fill="#4a90d933" stroke="none"/>`, area)
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="#4a90d9" stroke-width="2"/>`, strings.TrimSpace(line.String()))
	}

	for _, l := range WaypointLabels(profile, s, 7) {
		x := l.CenterX
		anchor := "middle"
		if l.RightAlign {
			anchor = "end"
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-size="11" text-anchor="%s">%s</text>`,
			x, heightPx-2, anchor, l.Text)
	}

	b.WriteString("</svg>")
	return b.String()
}
