// Package config resolves process configuration from flags, SCHOOLGRAPH_*
// environment variables and an optional YAML file, in that precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable: server.addr is read from
// SCHOOLGRAPH_SERVER_ADDR.
const EnvPrefix = "SCHOOLGRAPH"

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Resolver ResolverConfig
	Log      LogConfig
	Otel     OtelConfig
}

type ServerConfig struct {
	Addr         string
	Timeout      time.Duration
	Pretty       bool
	MaxBodyBytes int64
	CORS         []string
}

type StoreConfig struct {
	Driver   string
	DSN      string
	MaxConns int32
	// Migrate applies pending migrations before serving.
	Migrate bool
	// Seed is a YAML dataset loaded into the store at startup.
	Seed string
}

type ResolverConfig struct {
	Dedupe      bool
	Concurrency int
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type OtelConfig struct {
	Endpoint string
	Service  string
}

// RegisterFlags defines every configuration key on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML configuration file")

	fs.String("server.addr", ":8080", "HTTP listen address")
	fs.Duration("server.timeout", 10*time.Second, "Per-request timeout")
	fs.Bool("server.pretty", false, "Pretty-print JSON responses")
	fs.Int64("server.max-body-bytes", 1<<20, "Maximum request body size, 0 for unlimited")
	fs.StringSlice("server.cors", nil, "Allowed CORS origins; empty disables CORS")

	fs.String("store.driver", DriverMemory, "Backing store: memory or postgres")
	fs.String("store.dsn", "", "PostgreSQL connection string")
	fs.Int32("store.max-conns", 8, "Maximum pooled PostgreSQL connections")
	fs.Bool("store.migrate", false, "Apply pending migrations at startup")
	fs.String("store.seed", "", "YAML dataset loaded into the store at startup")

	fs.Bool("resolver.dedupe", false, "Share identical relation lookups within one depth")
	fs.Int("resolver.concurrency", 0, "Field groups resolved concurrently per depth, 0 for unbounded")

	fs.String("log.level", "info", "Log level: debug, info, warn, error")
	fs.Bool("log.pretty", false, "Human-readable console logs")

	fs.String("otel.endpoint", "", "OTLP/gRPC collector endpoint; empty disables tracing")
	fs.String("otel.service", "schoolgraph", "OpenTelemetry service name")
}

// Load reads configuration for the flags registered on fs.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, errors.Wrap(err, "binding flags")
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", file)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			Timeout:      v.GetDuration("server.timeout"),
			Pretty:       v.GetBool("server.pretty"),
			MaxBodyBytes: v.GetInt64("server.max-body-bytes"),
			CORS:         v.GetStringSlice("server.cors"),
		},
		Store: StoreConfig{
			Driver:   v.GetString("store.driver"),
			DSN:      v.GetString("store.dsn"),
			MaxConns: v.GetInt32("store.max-conns"),
			Migrate:  v.GetBool("store.migrate"),
			Seed:     v.GetString("store.seed"),
		},
		Resolver: ResolverConfig{
			Dedupe:      v.GetBool("resolver.dedupe"),
			Concurrency: v.GetInt("resolver.concurrency"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
		Otel: OtelConfig{
			Endpoint: v.GetString("otel.endpoint"),
			Service:  v.GetString("otel.service"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks values that flags alone cannot constrain.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want %s or %s)", c.Store.Driver, DriverMemory, DriverPostgres)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	if c.Resolver.Concurrency < 0 {
		return fmt.Errorf("resolver.concurrency must not be negative")
	}
	return nil
}
