package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/flowcheck/pkg/cache"
	"github.com/dukex/flowcheck/pkg/engine"
	"github.com/dukex/flowcheck/pkg/eventbus"
	"github.com/dukex/flowcheck/pkg/persistence"
	"github.com/dukex/flowcheck/pkg/services"
	"github.com/dukex/flowcheck/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	engine      *engine.Engine
	persistence persistence.Persistence
	cache       cache.Cache
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	engine *engine.Engine,
	persistence persistence.Persistence,
	cache cache.Cache,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		engine:      engine,
		persistence: persistence,
		cache:       cache,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		a.engine,
		services.NewWorkflow(a.persistence),
		services.NewNode(a.persistence, a.engine),
		a.cache,
		a.eventBus,
		a.validate,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))
	app.Use(web.RequestLogger(a.logger))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowcheck API")
	})

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
