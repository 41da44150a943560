package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/athletematch-mcp/internal/config"
	"github.com/dshills/athletematch-mcp/internal/logger"
	"github.com/dshills/athletematch-mcp/internal/registry"
	"github.com/dshills/athletematch-mcp/internal/searcher"
	"github.com/dshills/athletematch-mcp/internal/storage"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app holds the opened dependencies shared by every data command
type app struct {
	cfg      *config.Config
	store    *storage.SQLiteStorage
	registry *registry.Registry // nil when no known-athletes path is configured
	logger   *log.Logger
}

func (a *app) Close() error {
	return a.store.Close()
}

// knownSource returns the registry as a searcher source, or a nil interface
func (a *app) knownSource() searcher.KnownSource {
	if a.registry == nil {
		return nil
	}
	return a.registry
}

func (a *app) newSearcher() *searcher.Searcher {
	return searcher.NewSearcher(a.store, a.knownSource(),
		searcher.WithLogger(a.logger),
		searcher.WithCacheSize(a.cfg.Search.CacheSize),
	)
}

// openApp loads config and opens storage, registry and logger. Logs go to the
// command's stderr so stdout stays clean for results and the MCP protocol.
func (c *commandContext) openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	lg, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open athlete database: %w", err)
	}

	var reg *registry.Registry
	if cfg.Registry.KnownAthletesPath != "" {
		reg, err = registry.Open(cfg.Registry.KnownAthletesPath)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open known athletes: %w", err)
		}
	}

	lg.Debug("opened data", "database", cfg.Storage.DatabasePath,
		"known_athletes", cfg.Registry.KnownAthletesPath, "build_mode", storage.BuildMode)

	return &app{cfg: cfg, store: store, registry: reg, logger: lg}, nil
}

func (c *commandContext) withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := c.openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	return logger.New("athletematch", logger.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: cfg.Logging.Timestamp,
		Writer:    w,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
