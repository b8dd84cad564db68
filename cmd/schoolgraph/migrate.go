package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	config "github.com/hanpama/schoolgraph/internal/config"
	pgstore "github.com/hanpama/schoolgraph/internal/store/pgstore"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <command>",
		Short:     "Run database migrations against the postgres store",
		Long:      "Run a migration command: " + strings.Join(pgstore.MigrationCommands, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: pgstore.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate needs --store.driver=%s, got %q", config.DriverPostgres, cfg.Store.Driver)
			}
			pg, err := pgstore.Open(cmd.Context(), cfg.Store.DSN, pgstore.WithMaxConns(cfg.Store.MaxConns))
			if err != nil {
				return err
			}
			defer pg.Close()
			return pgstore.Migrate(cmd.Context(), pg.Pool(), args[0])
		},
	}
}
