package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Paskordnikk/Strekoza/internal/chart"
	"github.com/Paskordnikk/Strekoza/internal/geo"
	"github.com/Paskordnikk/Strekoza/internal/stream"
)

// RegisterCalcRoutes wires the stateless pipeline: waypoints in, profile
// (or CSV) out. Nothing is persisted.
func RegisterCalcRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/calculate", authMiddleware, func(c *fiber.Ctx) error {
		req, err := parseCalcRequest(c)
		if err != nil {
			return err
		}
		p, err := svc.Calculate(c.Context(), req.Waypoints, req.StepM)
		if err != nil {
			return calcError(err)
		}
		return c.JSON(p)
	})

	r.Post("/export.csv", authMiddleware, func(c *fiber.Ctx) error {
		req, err := parseCalcRequest(c)
		if err != nil {
			return err
		}
		p, err := svc.Calculate(c.Context(), req.Waypoints, req.StepM)
		if err != nil {
			return calcError(err)
		}
		return sendCSV(c, p)
	})
}

// RegisterRoutes wires saved-route CRUD and the profile endpoints derived
// from stored waypoints. hub may be nil; hover updates are then not fanned
// out to subscribers.
func RegisterRoutes(r fiber.Router, svc *Service, store *Store, hub *stream.Hub, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Route
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name required")
		}
		if len(req.Waypoints) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, ErrTooFewWaypoints.Error())
		}
		if req.StepM == 0 {
			req.StepM = 100
		}
		if userID, _ := c.Locals("user_id").(string); userID != "" {
			req.CreatedBy = userID
		}
		rt, err := store.CreateRoute(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rt)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		routes, err := store.ListRoutes(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(routes)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		rt, err := store.GetRoute(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		return c.JSON(rt)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := store.DeleteRoute(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Put("/:id/waypoints", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Waypoints []geo.Point `json:"waypoints"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if len(body.Waypoints) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, ErrTooFewWaypoints.Error())
		}
		if err := store.ReplaceWaypoints(c.Context(), c.Params("id"), body.Waypoints); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/profile", func(c *fiber.Ctx) error {
		p, err := storedProfile(c, svc, store)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Get("/:id/profile.svg", func(c *fiber.Ctx) error {
		p, err := storedProfile(c, svc, store)
		if err != nil {
			return err
		}
		width := queryFloat(c, "width", 800)
		height := queryFloat(c, "height", 240)
		c.Set("Content-Type", "image/svg+xml")
		return c.SendString(chart.RenderSVG(p.Points, width, height))
	})

	r.Get("/:id/export.csv", func(c *fiber.Ctx) error {
		p, err := storedProfile(c, svc, store)
		if err != nil {
			return err
		}
		return sendCSV(c, p)
	})

	r.Post("/import", authMiddleware, func(c *fiber.Ctx) error {
		waypoints, err := ImportWaypointsCSV(bytes.NewReader(c.Body()))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(waypoints) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, ErrTooFewWaypoints.Error())
		}

		name := c.Query("name")
		if name == "" {
			name = "Импорт"
		}
		stepM := c.QueryInt("step_m", 100)

		userID, _ := c.Locals("user_id").(string)
		rt, err := store.CreateRoute(c.Context(), Route{
			Name:      name,
			StepM:     stepM,
			CreatedBy: userID,
			Waypoints: waypoints,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rt)
	})

	r.Post("/:id/hover", func(c *fiber.Ctx) error {
		var body struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}

		p, err := storedProfile(c, svc, store)
		if err != nil {
			return err
		}
		hp, _, ok := chart.NearestOnRoute(p.Points, geo.Point{Lat: body.Lat, Lng: body.Lng})
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "profile too short")
		}

		if hub != nil {
			payload, _ := json.Marshal(hp)
			hub.Broadcast(c.Params("id"), payload)
		}
		return c.JSON(fiber.Map{
			"point":   hp,
			"tooltip": chart.TooltipText(hp.ElevationM, hp.DistanceKm),
		})
	})
}

type calcRequest struct {
	Waypoints []geo.Point `json:"waypoints"`
	StepM     int         `json:"step_m"`
}

func parseCalcRequest(c *fiber.Ctx) (calcRequest, error) {
	var req calcRequest
	if err := c.BodyParser(&req); err != nil {
		return calcRequest{}, fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.StepM == 0 {
		req.StepM = 100
	}
	return req, nil
}

func storedProfile(c *fiber.Ctx, svc *Service, store *Store) (Profile, error) {
	rt, err := store.GetRoute(c.Context(), c.Params("id"))
	if err != nil {
		return Profile{}, fiber.NewError(fiber.StatusNotFound, "route not found")
	}
	stepM := c.QueryInt("step_m", rt.StepM)
	if stepM == 0 {
		stepM = 100
	}
	p, err := svc.Calculate(c.Context(), rt.Waypoints, stepM)
	if err != nil {
		return Profile{}, calcError(err)
	}
	return p, nil
}

func calcError(err error) error {
	switch {
	case errors.Is(err, ErrTooFewWaypoints), errors.Is(err, ErrInvalidStep):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrElevationUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, ErrElevationUnavailable.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func sendCSV(c *fiber.Ctx, p Profile) error {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, p.Points); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="profile.csv"`)
	return c.Send(buf.Bytes())
}

func queryFloat(c *fiber.Ctx, key string, def float64) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
