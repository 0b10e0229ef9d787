package elevation

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Paskordnikk/Strekoza/internal/geo"
)

// RegisterRoutes wires the elevation lookup endpoint. Responses are
// reconciled: every returned elevation is finite and >= 0 even over void
// tiles, so clients can chart them directly.
func RegisterRoutes(r fiber.Router, src Source, authMiddleware fiber.Handler) {
	r.Post("/get_elevation", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			Points [][2]float64 `json:"points"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if len(req.Points) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "points required")
		}

		points := make([]geo.Point, len(req.Points))
		for i, p := range req.Points {
			points[i] = geo.Point{Lat: p[0], Lng: p[1]}
		}

		raw, err := src.Lookup(c.Context(), points)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to load elevation data")
		}
		if len(raw) != len(points) {
			return fiber.NewError(fiber.StatusBadGateway, "failed to load elevation data")
		}

		return c.JSON(fiber.Map{"elevations": ReconcileValues(raw)})
	})
}
