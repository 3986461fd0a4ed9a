// Command catalogctl runs catalog and contract administration operations
// against the MongoDB-backed stores.
//
//	catalogctl -role manager archive -service zoom -version 1.0 -plan PRO -addon webinars=1
//	catalogctl -role admin add-pricing -service zoom -file zoom-2.0.yml
//	catalogctl -role evaluator evaluate -user u-42
//	catalogctl -role evaluator health
//
// Errors print their stable kind key and exit with status 1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/pricingkit/pkg/catalog"
	"github.com/dmitrymomot/pricingkit/pkg/config"
	"github.com/dmitrymomot/pricingkit/pkg/contract"
	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/mongo"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

type appConfig struct {
	Role   string `env:"CATALOGCTL_ROLE"`
	Logger logger.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	var (
		cfg      appConfig
		mongoCfg mongo.Config
		fetchCfg pricing.FetcherConfig
	)
	for _, load := range []func() error{
		func() error { return config.Load(&cfg) },
		func() error { return config.Load(&mongoCfg) },
		func() error { return config.Load(&fetchCfg) },
	} {
		if err := load(); err != nil {
			fmt.Fprintln(os.Stderr, "catalogctl:", err)
			return exitFailure
		}
	}

	log := logger.New(
		logger.WithConfig(cfg.Logger),
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(roleExtractor),
	)
	logger.SetAsDefault(log)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		log.ErrorContext(ctx, "mongo connection failed", logger.Error(err))
		return exitFailure
	}
	defer func() {
		if err := db.Client().Disconnect(context.WithoutCancel(ctx)); err != nil {
			log.WarnContext(ctx, "mongo disconnect failed", logger.Error(err))
		}
	}()
	if err := mongo.EnsureIndexes(ctx, db, mongo.DefaultIndexes()); err != nil {
		log.ErrorContext(ctx, "mongo index setup failed", logger.Error(err))
		return exitFailure
	}

	a, err := newApp(ctx, stores{
		services:  catalog.NewMongoStore(db),
		documents: pricing.NewMongoStore(db),
		contracts: contract.NewMongoStore(db),
		health:    mongo.Healthcheck(db.Client()),
	}, pricing.NewHTTPFetcher(fetchCfg), log, os.Stdout, os.Stderr)
	if err != nil {
		log.ErrorContext(ctx, "initialization failed", logger.Error(err))
		return exitFailure
	}
	return a.run(ctx, cfg.Role, args)
}
