package bootstrap

import (
	"wealthdesk-backend/internal/config"
	"wealthdesk-backend/internal/interfaces/router"
	"wealthdesk-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless entry points, which may not import
// internal packages directly.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.LogLevel, false)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
