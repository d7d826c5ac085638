package app

import (
	"fmt"
	"log/slog"

	"github.com/tu10ng/vrpmock/internal/config"
	"github.com/tu10ng/vrpmock/internal/logger"
	"github.com/tu10ng/vrpmock/internal/nodes"
	"github.com/tu10ng/vrpmock/internal/store"
	"github.com/tu10ng/vrpmock/internal/vrp"
	"github.com/tu10ng/vrpmock/internal/vrp/commands"
)

var (
	Config   *config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Nodes    *nodes.Manager
	Registry *vrp.Registry
)

// Boot loads configuration and wires the process-wide collaborators: the
// logger, the AAA store, the VTY slot manager and the command table. It
// is safe to call again for a hot reload; globals are only swapped once
// everything loaded.
func Boot(configPath string, quiet bool) error {
	if configPath == "" {
		configPath = "config.yml"
	}

	newConfig, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The AAA store is deliberately in-memory: the mock keeps no state
	// across restarts. cache=shared keeps every pooled handle on the same
	// database.
	newStore, err := store.New("file::memory:?cache=shared", quiet)
	if err != nil {
		return fmt.Errorf("failed to open local-user store: %w", err)
	}

	Config = newConfig
	Logger = logger.Setup(Config.Loggers, quiet)

	if Store != nil {
		if err := Store.Close(); err != nil {
			Logger.Error("Failed to close existing store", "err", err)
		}
	}
	Store = newStore

	Nodes = nodes.NewManager(Config.MaxVTY)
	Registry = commands.NewRegistry(Store)

	if !quiet {
		Logger.Info("Successfully loaded configuration", "file", configPath)
	}

	return nil
}
