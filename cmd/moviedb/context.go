package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"moviedb/internal/catalog"
	"moviedb/internal/config"
	"moviedb/internal/logging"
	"moviedb/internal/omdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the catalog for one command invocation and closes it when
// the command finishes.
func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) lookupClient() (*omdb.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.OMDb.APIKey == "" {
		defaultPath, pathErr := config.DefaultConfigPath()
		if pathErr != nil {
			defaultPath = "~/.config/moviedb/config.toml"
		}
		return nil, fmt.Errorf("omdb.api_key is required for lookups; set OMDB_API_KEY or edit %s (create with 'moviedb config init')", defaultPath)
	}
	return omdb.New(
		cfg.OMDb.APIKey,
		cfg.OMDb.BaseURL,
		omdb.WithTimeout(time.Duration(cfg.OMDb.TimeoutSeconds)*time.Second),
	)
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(os.Stderr, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}
