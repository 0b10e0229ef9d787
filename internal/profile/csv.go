package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Paskordnikk/Strekoza/internal/geo"
	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

// csvHeader is the fixed interchange layout. Column names are kept in
// Russian for compatibility with files produced by earlier releases.
var csvHeader = []string{"широта", "долгота", "высота_м", "расстояние_км", "is_waypoint"}

var ErrEmptyCSV = errors.New("csv contains no points")

// ExportCSV writes the profile in the interchange layout: 6-decimal
// coordinates, 1-decimal elevation, 3-decimal distance, waypoint flag 0/1.
func ExportCSV(w io.Writer, points []sampler.SamplePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		flag := "0"
		if p.IsWaypoint {
			flag = "1"
		}
		record := []string{
			strconv.FormatFloat(p.Lat, 'f', 6, 64),
			strconv.FormatFloat(p.Lng, 'f', 6, 64),
			strconv.FormatFloat(p.ElevationM, 'f', 1, 64),
			strconv.FormatFloat(p.DistanceKm, 'f', 3, 64),
			flag,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportWaypointsCSV reads an interchange file back into a waypoint
// sequence. Only rows flagged is_waypoint=1 are taken; legacy files without
// that column import every row.
func ImportWaypointsCSV(r io.Reader) ([]geo.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	hasFlag := false
	start := 0
	if len(records) > 0 && len(records[0]) > 0 {
		if _, err := strconv.ParseFloat(records[0][0], 64); err != nil {
			// Header row.
			start = 1
			hasFlag = len(records[0]) >= 5 && records[0][len(records[0])-1] == "is_waypoint"
		}
	}

	var waypoints []geo.Point
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected at least lat and lng", i+1)
		}
		if hasFlag && (len(rec) < 5 || rec[4] != "1") {
			continue
		}
		lat, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad latitude %q", i+1, rec[0])
		}
		lng, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad longitude %q", i+1, rec[1])
		}
		waypoints = append(waypoints, geo.Point{Lat: lat, Lng: lng})
	}
	if len(waypoints) == 0 {
		return nil, ErrEmptyCSV
	}
	return waypoints, nil
}
