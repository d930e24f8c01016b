// Package main provides the Tradeflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/tradeflow-io/tradeflow/pkg/resolver"
	"github.com/tradeflow-io/tradeflow/pkg/stagenav"
	"github.com/tradeflow-io/tradeflow/pkg/statusflow"
	"github.com/tradeflow-io/tradeflow/pkg/web"
)

type API struct {
	logger     *slog.Logger
	resolver   *resolver.Resolver
	navigator  *stagenav.Navigator
	translator *statusflow.Translator
	validate   *validator.Validate
}

func NewAPI(
	log *slog.Logger,
	r *resolver.Resolver,
	navigator *stagenav.Navigator,
	translator *statusflow.Translator,
	validate *validator.Validate,
) *API {
	return &API{
		logger:     log,
		resolver:   r,
		navigator:  navigator,
		translator: translator,
		validate:   validate,
	}
}

func (a *API) Start(port int) error {
	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())
	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	handlers := web.NewAPIHandlers(a.resolver, a.navigator, a.translator, a.validate, a.logger)

	app.Get("/health", handlers.HealthCheck)

	templates := app.Group("/templates")
	templates.Get("/resolve", handlers.ResolveTemplate)
	templates.Get("/:id/panes", handlers.GetPaneSequence)

	app.Get("/stages/:id/sections", handlers.GetStageSections)
	app.Get("/sections", handlers.GetSectionsUnion)

	app.Post("/transactions/next-stage", handlers.NextStages)
	app.Post("/fields/evaluate", handlers.EvaluateField)

	a.logger.Info("Starting API server", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
