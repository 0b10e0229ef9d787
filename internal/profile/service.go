package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Paskordnikk/Strekoza/internal/elevation"
	"github.com/Paskordnikk/Strekoza/internal/geo"
	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

var (
	// ErrTooFewWaypoints: a route needs at least two waypoints; callers
	// treat this as a precondition, not a runtime fault.
	ErrTooFewWaypoints = errors.New("at least two waypoints required")

	ErrInvalidStep = errors.New("invalid sample step")

	// ErrElevationUnavailable wraps any failure talking to the elevation
	// source. The calculation is abandoned; no partial profile survives.
	ErrElevationUnavailable = errors.New("failed to load elevation data")
)

type Service struct {
	src elevation.Source
}

func NewService(src elevation.Source) *Service {
	return &Service{src: src}
}

// Calculate runs the full pipeline: sample the waypoints at stepM, query the
// elevation source for every sample, reconcile the response, and return the
// finished profile. Any failure discards the whole calculation.
func (s *Service) Calculate(ctx context.Context, waypoints []geo.Point, stepM int) (Profile, error) {
	if len(waypoints) < 2 {
		return Profile{}, ErrTooFewWaypoints
	}
	if !sampler.ValidStep(stepM) {
		return Profile{}, fmt.Errorf("%w: %d m", ErrInvalidStep, stepM)
	}

	samples, err := sampler.SampleContext(ctx, waypoints, stepM, nil)
	if err != nil {
		return Profile{}, err
	}

	points := make([]geo.Point, len(samples))
	for i, sp := range samples {
		points[i] = geo.Point{Lat: sp.Lat, Lng: sp.Lng}
	}

	raw, err := s.src.Lookup(ctx, points)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrElevationUnavailable, err)
	}
	if err := elevation.Reconcile(samples, raw); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrElevationUnavailable, err)
	}

	return buildProfile(samples, stepM), nil
}

func buildProfile(samples []sampler.SamplePoint, stepM int) Profile {
	p := Profile{
		StepM:      stepM,
		Points:     samples,
		Calculated: time.Now(),
	}
	if len(samples) == 0 {
		return p
	}

	p.TotalKm = samples[len(samples)-1].DistanceKm
	p.MinElevM = samples[0].ElevationM
	p.MaxElevM = samples[0].ElevationM
	for i, sp := range samples {
		if sp.ElevationM < p.MinElevM {
			p.MinElevM = sp.ElevationM
		}
		if sp.ElevationM > p.MaxElevM {
			p.MaxElevM = sp.ElevationM
		}
		if i > 0 && sp.ElevationM > samples[i-1].ElevationM {
			p.GainM += sp.ElevationM - samples[i-1].ElevationM
		}
	}
	return p
}
