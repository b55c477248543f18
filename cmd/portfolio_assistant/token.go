package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-assistant/internal/server"
)

var tokenConfigPath string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin token for the management endpoints",
	Long:  `Generate a signed bearer token for POST /admin/refresh. Requires JWT_SECRET to be configured.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenConfigPath, "config", "", "Path to config.json file")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(tokenConfigPath)
	if err != nil {
		return err
	}

	svc := server.NewJWTService(cfg.JWTSecret, cfg.ExpirationHours())
	if !svc.Enabled() {
		return fmt.Errorf("JWT_SECRET is not configured")
	}

	token, err := svc.GenerateToken()
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
