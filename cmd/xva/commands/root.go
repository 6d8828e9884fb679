package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JackRW23/xva-desk-simulator/pkg/config"
	"github.com/JackRW23/xva-desk-simulator/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xva",
	Short: "XVA desk simulator - GBM 익스포저 기반 CVA/DVA",
	Long: `XVA Desk Simulator CLI

GBM 경로 시뮬레이션 → 포트폴리오 익스포저 → EPE/ENE → CVA/DVA.
시장/시뮬레이션 기본값은 XVA_* 환경변수(.env)에서 읽음.

Usage:
  go run ./cmd/xva [command]

Examples:
  go run ./cmd/xva run
  go run ./cmd/xva run --trade swap:1000000:receiver --trade fx:500000:long
  go run ./cmd/xva shock --factor 2
  go run ./cmd/xva api
  go run ./cmd/xva book list`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (LOG_LEVEL=debug)")
}

// loadRuntime loads config and builds the logger shared by every command
func loadRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
