package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JackRW23/xva-desk-simulator/internal/scheduler"
	"github.com/JackRW23/xva-desk-simulator/internal/scheduler/jobs"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/database"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `XVA 배치 스케줄러를 시작하거나 작업을 관리합니다.
trade book(DATABASE_URL)이 필요합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행 (완료까지 대기)

Example:
  go run ./cmd/xva scheduler start
  go run ./cmd/xva scheduler list
  go run ./cmd/xva scheduler run xva_batch`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- xva_batch: SCHEDULER_XVA_BATCH (기본 매일 18:00, 모든 netting set CVA/DVA 재계산)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== XVA Desk Scheduler ===")

	sched, db, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer db.Close()

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, db, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer db.Close()

	stats := sched.GetJobStats()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s (%s)\n", jobName, stats[jobName].Schedule)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, db, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer db.Close()

	result, err := sched.RunJobNow(context.Background(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("Job %s failed after %d attempt(s): %s", jobName, result.Attempts, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintSuccess(fmt.Sprintf("Job %s completed in %.2fs", jobName, result.Duration.Seconds()))
	if result.Summary != "" {
		PrintKeyValue("Summary", result.Summary, 10)
	}
	return nil
}

func initScheduler() (*scheduler.Scheduler, *database.DB, error) {
	// 1. Load config + logger
	cfg, log, err := loadRuntime()
	if err != nil {
		return nil, nil, err
	}

	// 2. Connect to trade book
	db, repo, err := openBooks(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	// 3. Create scheduler
	sched := scheduler.New(log)

	// 4. Register jobs
	batch := jobs.NewXVABatchJob(repo, xva.NewEngine(log), xva.ParamsFromConfig(cfg.XVA), cfg.Scheduler.XVABatch, log)
	if err := sched.AddJob(batch); err != nil {
		db.Close()
		return nil, nil, err
	}

	return sched, db, nil
}
