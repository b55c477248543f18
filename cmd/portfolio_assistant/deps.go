package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/portfolio-assistant/internal/config"
	"github.com/jonathan/portfolio-assistant/internal/content"
)

// resolveConfig builds the effective configuration: environment variables
// first, overridden by the optional JSON config file. Flags are applied by
// each command afterwards.
func resolveConfig(configPath string) (*config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.Merge(fileCfg)
	}
	return cfg, nil
}

// newLogger builds the process logger. Verbose mode gets the development
// encoder with debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildSource picks the content source: a local snapshot file when
// configured, the CMS otherwise.
func buildSource(cfg *config.Config, log *zap.Logger) (content.Source, error) {
	if cfg.ContentFile != "" {
		return content.NewFileSource(cfg.ContentFile)
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	return content.NewClient(content.ClientConfig{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		CacheTTL:   ttl,
	}, log.Named("content"))
}
