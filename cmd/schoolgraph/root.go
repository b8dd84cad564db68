package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	config "github.com/hanpama/schoolgraph/internal/config"
	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	logging "github.com/hanpama/schoolgraph/internal/logging"
	resolver "github.com/hanpama/schoolgraph/internal/resolver"
	seed "github.com/hanpama/schoolgraph/internal/seed"
	store "github.com/hanpama/schoolgraph/internal/store"
	memstore "github.com/hanpama/schoolgraph/internal/store/memstore"
	pgstore "github.com/hanpama/schoolgraph/internal/store/pgstore"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schoolgraph",
		Short: "GraphQL API over students, departments, teachers and courses",
		Long: `schoolgraph serves a typed GraphQL API over a school database.

Every setting can be given as a flag, as a SCHOOLGRAPH_* environment
variable (server.addr is SCHOOLGRAPH_SERVER_ADDR) or in the YAML file
named by --config, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(), newQueryCmd(), newSchemaCmd(), newMigrateCmd())
	return root
}

// loadConfig reads configuration and applies its logging section.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	if err := logging.Configure(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Output: cmd.ErrOrStderr()}); err != nil {
		return config.Config{}, errors.Wrap(err, "configuring logger")
	}
	return cfg, nil
}

// backend is an opened store.
type backend struct {
	gateway store.Gateway
	close   func()
}

// openStore opens the configured store, migrating and seeding it on request.
func openStore(ctx context.Context, cfg config.StoreConfig) (*backend, error) {
	var (
		b      = &backend{close: func() {}}
		target seed.Seeder
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := pgstore.Open(ctx, cfg.DSN, pgstore.WithMaxConns(cfg.MaxConns))
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := pgstore.Migrate(ctx, pg.Pool(), "up"); err != nil {
				pg.Close()
				return nil, err
			}
		}
		b.gateway, b.close, target = pg.Gateway(), pg.Close, pg
	default:
		mem := memstore.New()
		b.gateway, target = mem.Gateway(), mem
	}

	if cfg.Seed != "" {
		data, err := seed.LoadFile(ctx, target, cfg.Seed)
		if err != nil {
			b.close()
			return nil, errors.Wrap(err, "seeding store")
		}
		logging.Info().
			Str("file", cfg.Seed).
			Int("departments", len(data.Departments)).
			Int("teachers", len(data.Teachers)).
			Int("courses", len(data.Courses)).
			Int("students", len(data.Students)).
			Msg("store seeded")
	}
	return b, nil
}

func resolverOptions(cfg config.ResolverConfig, bus *eventbus.Bus) []resolver.Option {
	policy := resolver.PolicyPerField
	if cfg.Dedupe {
		policy = resolver.PolicyDedupe
	}
	return []resolver.Option{
		resolver.WithPolicy(policy),
		resolver.WithConcurrency(cfg.Concurrency),
		resolver.WithEventBus(bus),
	}
}
