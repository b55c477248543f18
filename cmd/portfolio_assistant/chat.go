package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-assistant/internal/assistant"
	"github.com/jonathan/portfolio-assistant/internal/generation"
	"github.com/jonathan/portfolio-assistant/internal/llm"
	"github.com/jonathan/portfolio-assistant/internal/observability"
)

var (
	chatConfigPath string
	chatVerbose    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long:  `Start an interactive terminal session against the configured portfolio content. Useful for trying out content changes before deploying.`,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatConfigPath, "config", "", "Path to config.json file")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print snapshot and model binding details")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(chatConfigPath)
	if err != nil {
		return err
	}
	if chatVerbose {
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
	snap, err := source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	var client llm.Client
	if cfg.APIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create generative client: %w", err)
		}
		client = gemini
		defer client.Close() //nolint:errcheck
	}

	discovery := generation.NewDiscovery(client, log.Named("discovery"))
	go discovery.Run(ctx)

	engine := assistant.NewEngine(snap, log.Named("engine"))
	selector := generation.NewSelector(client, engine, discovery, log.Named("selector"))

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintSnapshot(snap)
		printer.PrintIssues(snap.Validate())
		if state, ok := discovery.Wait(15 * time.Second); ok {
			printer.PrintBinding(state)
		}
	}

	fmt.Println("Portfolio assistant ready. Type a question, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply := selector.Respond(ctx, line)
		if cfg.Verbose && reply.Source == generation.SourceGenerative {
			fmt.Printf("[%s]\n", reply.Model)
		}
		fmt.Println(reply.Text)
		fmt.Println()
	}

	return scanner.Err()
}
