package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JackRW23/xva-desk-simulator/internal/report"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "XVA 1회 실행 (CVA/DVA)",
	Long: `GBM 경로를 시뮬레이션하고 포트폴리오의 CVA/DVA를 계산합니다.

Trade 형식: kind:notional[:direction[:strike]]
  swap   direction = payer | receiver
  fx     direction = long | short
  option strike (기본 1.0)
  그 외 kind는 익스포저 0

Example:
  go run ./cmd/xva run
  go run ./cmd/xva run --paths 50000 --seed 42 --table
  go run ./cmd/xva run --trade swap:1000000:payer --trade option:250000::1.05`,
	RunE: runXVA,
}

var (
	runFlags runInputs
	runTable bool
	runJSON  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runFlags.register(runCmd.Flags())
	runCmd.Flags().BoolVar(&runTable, "table", false, "print exposure profile table")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print full result as JSON")
}

func runXVA(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	params, err := runFlags.params(cmd.Flags(), cfg.XVA)
	if err != nil {
		return err
	}

	engine := xva.NewEngine(log)
	result, err := engine.Run(context.Background(), params)
	if err != nil {
		return fmt.Errorf("xva run: %w", err)
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)

	if runTable {
		fmt.Println()
		if err := report.WriteTable(os.Stdout, result); err != nil {
			return err
		}
	}

	return nil
}

func printResult(result *xva.Result) {
	params := result.Params

	PrintHeader("XVA Run")
	PrintKeyValue("Run ID", result.RunID, 14)
	PrintKeyValue("Counterparty", params.Counterparty.Name, 14)
	PrintKeyValue("Trades", strconv.Itoa(len(params.Trades)), 14)
	PrintKeyValue("Paths x Steps", fmt.Sprintf("%d x %d", params.Paths, params.Steps), 14)
	PrintKeyValue("Seed", strconv.FormatUint(result.Seed, 10), 14)
	PrintKeyValue("Peak EPE", fmt.Sprintf("%s @ t=%.4f", report.FormatMoney(result.PeakEPE), result.PeakEPETime), 14)
	PrintSeparator()
	fmt.Print(report.Summary(result))
	PrintDoubleSeparator()
}
