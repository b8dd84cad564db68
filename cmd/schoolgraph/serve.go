package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	logging "github.com/hanpama/schoolgraph/internal/logging"
	metrics "github.com/hanpama/schoolgraph/internal/metrics"
	otel "github.com/hanpama/schoolgraph/internal/otel"
	resolver "github.com/hanpama/schoolgraph/internal/resolver"
	server "github.com/hanpama/schoolgraph/internal/server"
	store "github.com/hanpama/schoolgraph/internal/store"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP GraphQL server",
		Long: `Run the HTTP GraphQL server.

Routes:
  /graphql   GraphQL over GET and POST, batched POST supported
  /metrics   Prometheus metrics
  /healthz   liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bus := eventbus.New()
			defer logging.Subscribe(bus)()
			m := metrics.New()
			defer m.Subscribe(bus)()

			shutdownTracing, err := otel.Setup(ctx, cfg.Otel.Endpoint, cfg.Otel.Service, bus)
			if err != nil {
				return errors.Wrap(err, "otel setup")
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			b, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer b.close()

			exec, err := resolver.NewExecutor(store.Instrument(b.gateway, bus), resolverOptions(cfg.Resolver, bus)...)
			if err != nil {
				return err
			}
			opts := []server.Option{
				server.WithTimeout(cfg.Server.Timeout),
				server.WithPretty(cfg.Server.Pretty),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				server.WithEventBus(bus),
			}
			if len(cfg.Server.CORS) > 0 {
				opts = append(opts, server.WithCORS(cfg.Server.CORS...))
			}
			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.Routes(server.New(exec, opts...), m.Handler()),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logging.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Store.Driver).Msg("GraphQL server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				logging.Info().Msg("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}
