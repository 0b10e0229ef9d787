package profile

import (
	"time"

	"github.com/Paskordnikk/Strekoza/internal/geo"
	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

// Profile is a fully reconciled elevation profile: every point's elevation
// is finite and >= 0. It is rebuilt from the current waypoints on every
// calculation and never patched in place.
type Profile struct {
	StepM      int                   `json:"step_m"`
	TotalKm    float64               `json:"total_km"`
	MinElevM   float64               `json:"min_elev_m"`
	MaxElevM   float64               `json:"max_elev_m"`
	GainM      float64               `json:"gain_m"`
	Points     []sampler.SamplePoint `json:"points"`
	Calculated time.Time             `json:"calculated_at"`
}

// Route is a saved waypoint sequence. The profile itself is not stored;
// it is recalculated from the waypoints on demand.
type Route struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	StepM     int         `json:"step_m"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	Waypoints []geo.Point `json:"waypoints"`
}
