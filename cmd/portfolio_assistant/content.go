package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-assistant/internal/observability"
)

var contentConfigPath string

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Fetch and summarize the portfolio content",
	Long:  `Fetch the configured content source and print a summary plus any validation findings. Useful for checking CMS changes.`,
	RunE:  runContent,
}

func init() {
	contentCmd.Flags().StringVar(&contentConfigPath, "config", "", "Path to config.json file")
	rootCmd.AddCommand(contentCmd)
}

func runContent(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(contentConfigPath)
	if err != nil {
		return err
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

	snap, err := source.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch content: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSnapshot(snap)
	printer.PrintIssues(snap.Validate())
	return nil
}
