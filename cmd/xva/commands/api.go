package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JackRW23/xva-desk-simulator/internal/api"
	"github.com/JackRW23/xva-desk-simulator/internal/api/handlers"
	"github.com/JackRW23/xva-desk-simulator/internal/book"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/config"
	"github.com/JackRW23/xva-desk-simulator/pkg/database"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

DATABASE_URL이 설정되어 있으면 trade book 엔드포인트도 활성화됩니다.

Endpoints:
  GET  /health                 - Health check
  POST /api/xva/run            - XVA 실행 (Params JSON)
  POST /api/xva/shock          - hazard 충격 비교 ({params, factor})
  GET  /api/books              - 저장된 netting set 목록
  GET  /api/books/{name}/xva   - 저장된 netting set XVA 실행

Example:
  go run ./cmd/xva api
  go run ./cmd/xva api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본 PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== XVA Desk API Server ===")

	// 1. Load config + logger
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 2. Trade book (optional)
	var books handlers.BookStore
	db, repo, err := openBooks(context.Background(), cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Warn("DATABASE_URL not set, trade book endpoints disabled")
	case err != nil:
		return err
	default:
		defer db.Close()
		books = repo
		log.Info("Connected to trade book database")
	}

	// 3. Create handler + router
	xvaHandler := handlers.NewXVAHandler(xva.NewEngine(log), books, xva.ParamsFromConfig(cfg.XVA), handlers.Limits{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		MaxCells:     cfg.XVA.MaxCells,
	}, log)
	router := api.NewRouter(xvaHandler, cfg.RateLimit, log)

	// 4. Create server
	server := api.New(cfg, log, router)

	// 5. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// openBooks connects to the trade book database
// DATABASE_URL이 없으면 database.ErrNotConfigured
func openBooks(ctx context.Context, cfg *config.Config) (*database.DB, *book.Repository, error) {
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		if errors.Is(err, database.ErrNotConfigured) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, book.NewRepository(db.Pool), nil
}
