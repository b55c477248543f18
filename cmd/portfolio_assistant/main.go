// Package main provides the entry point for the portfolio assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio_assistant",
	Short: "Portfolio site conversational assistant",
	Long:  "Portfolio Assistant answers visitor questions about a developer's projects, experience, education, and skills, grounded in the portfolio's CMS content, with an optional generative backend.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
