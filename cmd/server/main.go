package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/csg33k/employee-roster/internal/adapters/memory"
	sqliteadapter "github.com/csg33k/employee-roster/internal/adapters/sqlite"
	"github.com/csg33k/employee-roster/internal/config"
	"github.com/csg33k/employee-roster/internal/ports"
	"github.com/csg33k/employee-roster/internal/roster"
)

var (
	configPath string
	portFlag   string
	storeFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "employee-roster",
	Short: "Gerenciamento de Funcionários web UI",
	Long: `Serves a single-page employee roster: a table of employees with
add, edit and delete, backed by an in-memory store.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default $ROSTER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Record store backend: memory or sqlite")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies flags over the file and environment settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}
	if storeFlag != "" {
		cfg.Store = storeFlag
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *slog.Logger {
	lvl, _ := cfg.SlogLevel()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openStore builds the configured repository. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (ports.EmployeeRepository, func(), error) {
	var (
		repo    ports.EmployeeRepository
		closeFn = func() {}
	)
	switch cfg.Store {
	case config.StoreSQLite:
		r, err := sqliteadapter.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		repo = r
		closeFn = func() { r.Close() }
	default:
		repo = memory.New()
	}
	if cfg.Seed {
		if err := roster.Seed(ctx, repo); err != nil {
			closeFn()
			return nil, nil, err
		}
	}
	return repo, closeFn, nil
}
