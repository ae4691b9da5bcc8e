package router

import (
	"context"
	"errors"
	"time"

	authsvc "wealthdesk-backend/internal/application/auth"
	"wealthdesk-backend/internal/application/emails"
	healthsvc "wealthdesk-backend/internal/application/health"
	holdsvc "wealthdesk-backend/internal/application/holdings"
	inssvc "wealthdesk-backend/internal/application/insights"
	invsvc "wealthdesk-backend/internal/application/investors"
	portsvc "wealthdesk-backend/internal/application/portfolios"
	repsvc "wealthdesk-backend/internal/application/reports"
	"wealthdesk-backend/internal/config"
	"wealthdesk-backend/internal/infrastructure/database"
	"wealthdesk-backend/internal/infrastructure/redisclient"
	authhandler "wealthdesk-backend/internal/interfaces/handlers/auth"
	healthhandler "wealthdesk-backend/internal/interfaces/handlers/health"
	holdhandler "wealthdesk-backend/internal/interfaces/handlers/holdings"
	inshandler "wealthdesk-backend/internal/interfaces/handlers/insights"
	invhandler "wealthdesk-backend/internal/interfaces/handlers/investors"
	porthandler "wealthdesk-backend/internal/interfaces/handlers/portfolios"
	rephandler "wealthdesk-backend/internal/interfaces/handlers/reports"
	"wealthdesk-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the connections CreateApp builds on. Tests pass them directly;
// CreateApp opens them from the config.
type Deps struct {
	DB        *gorm.DB
	Rdb       *redis.Client
	Generator inssvc.Generator
}

// CreateApp opens the database and Redis from cfg and builds the Fiber app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, nil, nil, errors.New("REDIS_URL is required")
	}
	if cfg.IsProduction() && cfg.SessionSecret == "" {
		return nil, nil, nil, errors.New("SESSION_SECRET is required in production")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}
	rdb, err := redisclient.Open(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	app := NewApp(cfg, Deps{DB: db, Rdb: rdb, Generator: insightGenerator(cfg)})
	return app, db, rdb, nil
}

// insightGenerator uses Gemini when an API key is configured, falling back to
// the canned texts on any model failure.
func insightGenerator(cfg *config.Config) inssvc.Generator {
	templates := inssvc.NewTemplateGenerator(time.Now().UnixNano())
	if cfg.GeminiAPIKey == "" {
		return templates
	}
	model, err := inssvc.NewGeminiModel(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Warn().Err(err).Msg("gemini unavailable, using template insights")
		return templates
	}
	return &inssvc.GeminiGenerator{Model: model, Fallback: templates}
}

// NewApp registers middleware and routes over already opened connections.
func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.HealthMarker(deps.Rdb))

	store := database.NewStore(deps.DB)

	var probes []healthsvc.Probe
	if cfg.FrontendURL != "" {
		probes = append(probes, healthsvc.Probe{Name: "frontend", URL: cfg.FrontendURL})
	}
	hh := &healthhandler.Handlers{
		Rdb:            deps.Rdb,
		DB:             store,
		Probes:         probes,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	api := app.Group("/api/v1", middleware.Session(deps.Rdb, cfg.SessionSecret))

	ah := &authhandler.Handlers{
		Auth: &authsvc.Service{
			Advisors: store.Advisors(),
			Mailer:   &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom},
		},
		Rdb:    deps.Rdb,
		Config: sessionCfg,
	}
	authGroup := api.Group("/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)
	authGroup.Delete("/sessions", ah.LogoutAll)

	cache := &repsvc.Cache{Rdb: deps.Rdb, TTL: cfg.ReportCacheTTL}
	builder := &repsvc.Builder{Store: store, Cache: cache}
	agg := &portsvc.Aggregator{Store: store, Reports: cache}

	generator := deps.Generator
	if generator == nil {
		generator = inssvc.NewTemplateGenerator(time.Now().UnixNano())
	}

	guard := []fiber.Handler{middleware.RequireAuth(), middleware.RequireActiveAdvisor(store.Advisors())}

	ih := &invhandler.Handlers{Service: &invsvc.Service{Store: store, Reports: cache}}
	ig := api.Group("/investors", guard...)
	ig.Post("/", ih.Create)
	ig.Get("/", ih.List)
	ig.Get("/:id", ih.Get)
	ig.Put("/:id", ih.Update)
	ig.Delete("/:id", ih.Delete)

	ph := &porthandler.Handlers{Service: &portsvc.Service{Store: store, Aggregator: agg}}
	pg := api.Group("/portfolios", guard...)
	pg.Post("/", ph.Create)
	pg.Get("/", ph.List)
	pg.Get("/models", ph.ListModels)
	pg.Post("/simulate", ph.Simulate)
	pg.Get("/:id", ph.Get)
	pg.Put("/:id", ph.Update)
	pg.Delete("/:id", ph.Delete)
	pg.Post("/:id/recompute", ph.Recompute)

	hdh := &holdhandler.Handlers{Service: &holdsvc.Service{Store: store, Aggregator: agg}}
	hg := api.Group("/holdings", guard...)
	hg.Post("/", hdh.Create)
	hg.Get("/", hdh.List)
	hg.Get("/:id", hdh.Get)
	hg.Put("/:id", hdh.Update)
	hg.Delete("/:id", hdh.Delete)
	hg.Patch("/:id/close", hdh.Close)

	rh := &rephandler.Handlers{Service: &repsvc.Service{Builder: builder, Store: store}}
	rg := api.Group("/reports", guard...)
	rg.Get("/investors/:id", rh.Investor)
	rg.Post("/investors/:id/snapshots", rh.SaveSnapshot)
	rg.Get("/investors/:id/snapshots", rh.ListSnapshots)

	insh := &inshandler.Handlers{Service: &inssvc.Service{Store: store, Generator: generator, Reports: builder}}
	insg := api.Group("/insights", guard...)
	insg.Post("/investors/:id", insh.Generate)
	insg.Get("/investors/:id", insh.List)

	return app
}
