package main

import (
	"context"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/tradeflow-io/tradeflow/pkg/cmd"
	"github.com/tradeflow-io/tradeflow/pkg/log"
	"github.com/tradeflow-io/tradeflow/pkg/resolver"
	"github.com/tradeflow-io/tradeflow/pkg/stagenav"
	"github.com/tradeflow-io/tradeflow/pkg/statusflow"
)

const defaultPort = 9080

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "tradeflow-api",
		Usage:                 "Serve workflow resolution and field-rule evaluation",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "catalog-url",
				Usage:    "Catalog location (file://path or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("CATALOG_URL"),
			},
			&cli.StringFlag{
				Name:    "cache-url",
				Usage:   "Redis URL for the shared template cache (in-memory when empty)",
				Sources: cli.EnvVars("CACHE_URL"),
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Usage:   "Template cache entry lifetime (0 keeps entries until invalidated)",
				Value:   0,
				Sources: cli.EnvVars("CACHE_TTL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Catalog event bus provider (memory, kafka)",
				Value:   "memory",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "cache-refresh-schedule",
				Usage:   "Cron expression for periodic template cache refresh (disabled when empty)",
				Sources: cli.EnvVars("CACHE_REFRESH_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Tradeflow API")

			catalog, err := cmd.NewCatalog(ctx, logger, command.String("catalog-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := catalog.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close catalog", "error", err)
				}
			}()

			cache, err := cmd.NewTemplateCache(command.String("cache-url"), command.Duration("cache-ttl"), logger)
			if err != nil {
				return err
			}

			engineResolver := resolver.NewResolver(catalog, cache, logger)

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			invalidator := resolver.NewCacheInvalidator(engineResolver, logger)
			if err := invalidator.Register(eventBus); err != nil {
				return err
			}

			if err := eventBus.Subscribe(ctx); err != nil {
				return err
			}

			if schedule := command.String("cache-refresh-schedule"); schedule != "" {
				scheduler, err := startCacheRefresh(ctx, schedule, engineResolver)
				if err != nil {
					return err
				}

				defer scheduler.Stop()
			}

			api := NewAPI(
				logger,
				engineResolver,
				stagenav.NewNavigator(engineResolver, logger),
				statusflow.NewTranslator(engineResolver, logger),
				validator.New(validator.WithRequiredStructEnabled()),
			)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

// startCacheRefresh schedules a periodic cache clear, covering deployments
// whose configuration tooling cannot publish change events.
func startCacheRefresh(ctx context.Context, schedule string, r *resolver.Resolver) (*cron.Cron, error) {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(schedule, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		r.Invalidate(refreshCtx)
	})
	if err != nil {
		return nil, err
	}

	scheduler.Start()

	return scheduler, nil
}
