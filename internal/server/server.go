package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Paskordnikk/Strekoza/internal/auth"
	"github.com/Paskordnikk/Strekoza/internal/config"
	"github.com/Paskordnikk/Strekoza/internal/elevation"
	"github.com/Paskordnikk/Strekoza/internal/profile"
	"github.com/Paskordnikk/Strekoza/internal/stream"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Hub   *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Hub:   stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	src := elevationSource(s.Cfg, s.Redis)
	profileSvc := profile.NewService(src)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	elevation.RegisterRoutes(s.App.Group("/api"), src, jwtMiddleware)
	profile.RegisterCalcRoutes(s.App.Group("/profile"), profileSvc, jwtMiddleware)
	profile.RegisterRoutes(s.App.Group("/routes"), profileSvc, profile.NewStore(s.DB), s.Hub, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Hub)
}

// elevationSource picks local SRTM tiles or a remote upstream, wrapping
// either in the redis cache when one is available.
func elevationSource(cfg config.Config, redisClient *redis.Client) elevation.Source {
	var src elevation.Source
	if cfg.ElevationURL != "" {
		src = elevation.NewClient(cfg.ElevationURL, cfg.ElevationToken)
	} else {
		src = elevation.NewSRTMStore(cfg.SRTMDir)
	}
	if redisClient != nil {
		src = elevation.NewCache(src, redisClient, cfg.ElevationCacheTTL)
	}
	return src
}
