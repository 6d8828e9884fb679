package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

// dbCheckCmd represents the db-check command
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Trade book DB 연결 테스트",
	Long: `trade book 데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

Example:
  go run ./cmd/xva db-check`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCheckCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadRuntime()
	if err != nil {
		return err
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", redactURL(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, _, err := openBooks(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	PrintHeader("Trade Book Health")
	PrintKeyValue("Healthy", fmt.Sprintf("%v", status.Healthy), 14)
	PrintKeyValue("Response Time", status.ResponseTime.String(), 14)
	PrintKeyValue("Total Conns", fmt.Sprintf("%d", status.TotalConns), 14)
	PrintKeyValue("Idle Conns", fmt.Sprintf("%d", status.IdleConns), 14)
	PrintKeyValue("Acquired", fmt.Sprintf("%d", status.AcquiredConns), 14)
	PrintDoubleSeparator()

	return nil
}

// redactURL hides the password of a connection URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
