package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/Paskordnikk/Strekoza/internal/db"
	"github.com/Paskordnikk/Strekoza/internal/geo"
)

// Store persists saved routes and their waypoint sequences. Waypoints are
// replaced wholesale on edit; a route is never partially patched.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRoute(ctx context.Context, input Route) (Route, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, name, step_m, created_by)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, input.ID, input.Name, input.StepM, input.CreatedBy)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Route{}, err
	}

	if err := s.insertWaypoints(ctx, input.ID, input.Waypoints); err != nil {
		return Route{}, err
	}
	return input, nil
}

func (s *Store) GetRoute(ctx context.Context, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, step_m, created_by, created_at
		FROM routes WHERE id=$1
	`, id)
	var rt Route
	if err := row.Scan(&rt.ID, &rt.Name, &rt.StepM, &rt.CreatedBy, &rt.CreatedAt); err != nil {
		return Route{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT ST_Y(location::geometry), ST_X(location::geometry)
		FROM route_waypoints WHERE route_id=$1
		ORDER BY position
	`, id)
	if err != nil {
		return Route{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var p geo.Point
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			return Route{}, err
		}
		rt.Waypoints = append(rt.Waypoints, p)
	}
	return rt, nil
}

func (s *Store) ListRoutes(ctx context.Context, userID string) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, step_m, created_by, created_at
		FROM routes WHERE created_by=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var rt Route
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.StepM, &rt.CreatedBy, &rt.CreatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, nil
}

func (s *Store) DeleteRoute(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM route_waypoints WHERE route_id=$1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id)
	return err
}

// ReplaceWaypoints swaps the route's waypoint sequence for a new one.
func (s *Store) ReplaceWaypoints(ctx context.Context, routeID string, waypoints []geo.Point) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM route_waypoints WHERE route_id=$1`, routeID); err != nil {
		return err
	}
	return s.insertWaypoints(ctx, routeID, waypoints)
}

func (s *Store) insertWaypoints(ctx context.Context, routeID string, waypoints []geo.Point) error {
	for i, p := range waypoints {
		_, err := s.db.Exec(ctx, `
			INSERT INTO route_waypoints (route_id, position, location)
			VALUES ($1,$2, ST_SetSRID(ST_MakePoint($3,$4), 4326)::geography)
		`, routeID, i, p.Lng, p.Lat)
		if err != nil {
			return err
		}
	}
	return nil
}
