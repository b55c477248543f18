package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-assistant/internal/llm"
	"github.com/jonathan/portfolio-assistant/internal/server"
	"github.com/jonathan/portfolio-assistant/internal/store"
)

var (
	serveConfigPath string
	servePort       int
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the chat endpoints backing the site's assistant widget.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if serveVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	source, err := buildSource(cfg, log)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var client llm.Client
	if cfg.APIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create generative client: %w", err)
		}
		client = gemini
	} else {
		log.Info("no API key configured, running rule-based only")
	}

	var st *store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to transcript store: %w", err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	srv, err := server.New(server.Config{
		Port:               cfg.Port,
		RefreshSchedule:    cfg.RefreshSchedule,
		JWTSecret:          cfg.JWTSecret,
		JWTExpirationHours: cfg.JWTExpirationHours,
	}, source, client, st, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
