package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cecil-the-coder/todo-provider-kit/internal/logging"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/backend"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/backendtypes"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/config"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/factory"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

var serveFlags struct {
	configPath string
	port       int
	dsn        string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the to-do API. Requests carrying "X-Provider: EfCore" (or the configured
durable key) are served from SQLite; every other request uses the in-memory store.

Shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveFlags.configPath, "config", "c", "", "path to YAML config file")
	f.IntVarP(&serveFlags.port, "port", "p", 0, "listen port (overrides config)")
	f.StringVar(&serveFlags.dsn, "db", "", "SQLite data source for the durable provider (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, cmd.ErrOrStderr())
	log := logging.New("serve")

	selector, err := buildSelector(cfg)
	if err != nil {
		return err
	}
	defer closeProviders(selector)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := backend.NewServer(*cfg, selector)
	if err := srv.ListenAndServeWithGracefulShutdown(ctx); err != nil {
		return err
	}
	log.Info("stopped")
	return nil
}

// loadServeConfig layers defaults, the config file, TODO_API_* variables and
// finally explicit flags.
func loadServeConfig(cmd *cobra.Command) (*backendtypes.BackendConfig, error) {
	cfg, err := config.Load(serveFlags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serveFlags.port
	}
	if cmd.Flags().Changed("db") {
		cfg.Providers.SQLite.DSN = serveFlags.dsn
	}
	if cfg.Server.Version == "" || cfg.Server.Version == "dev" {
		cfg.Server.Version = version
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildSelector(cfg *backendtypes.BackendConfig) (*factory.Selector, error) {
	f := factory.NewProviderFactory()
	factory.RegisterDefaultProviders(f)

	return factory.BuildSelector(f,
		types.ProviderConfig{Type: types.ProviderTypeMemory, Name: "memory"},
		types.ProviderConfig{Type: types.ProviderTypeSQLite, Name: "sqlite", DSN: cfg.Providers.SQLite.DSN},
		cfg.Providers.DurableKey,
	)
}

func closeProviders(selector *factory.Selector) {
	for name, p := range selector.Providers() {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logging.New("serve").Warn("close provider", "name", name, "error", err)
			}
		}
	}
}
