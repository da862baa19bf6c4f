package server

import (
	"sicbot/internal/core/registro"
	"sicbot/internal/health"
	"sicbot/internal/platform/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	Registros *registro.Repository
	Trigger   registro.Trigger
	Redis     *redis.Service
	Pool      *pgxpool.Pool
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis, d.Pool)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/api")

	registroHandler := registro.NewHandler(d.Registros, d.Trigger, d.Redis)
	api.Post("/registros", registroHandler.HandleCreate)
	api.Get("/registros/:id", registroHandler.HandleGet)

	return healthHandler
}
