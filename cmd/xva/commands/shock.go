package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JackRW23/xva-desk-simulator/internal/report"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

// shockCmd represents the shock command
var shockCmd = &cobra.Command{
	Use:   "shock",
	Short: "거래상대방 hazard 충격 시 CVA 비교",
	Long: `거래상대방 hazard rate를 factor배 했을 때의 CVA를 기준 CVA와 비교합니다.
같은 경로(같은 EPE)에 재적분하므로 충격 효과만 분리됩니다.

Example:
  go run ./cmd/xva shock --factor 2
  go run ./cmd/xva shock --factor 1.5 --seed 42`,
	RunE: runShock,
}

var (
	shockFlags  runInputs
	shockFactor float64
)

func init() {
	rootCmd.AddCommand(shockCmd)

	shockFlags.register(shockCmd.Flags())
	shockCmd.Flags().Float64Var(&shockFactor, "factor", 2.0, "hazard rate multiplier (> 0)")
}

func runShock(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	params, err := shockFlags.params(cmd.Flags(), cfg.XVA)
	if err != nil {
		return err
	}

	engine := xva.NewEngine(log)
	shock, err := engine.ShockTest(context.Background(), params, shockFactor)
	if err != nil {
		return fmt.Errorf("shock test: %w", err)
	}

	PrintHeader("Hazard Shock")
	PrintKeyValue("Counterparty", params.Counterparty.Name, 14)
	PrintKeyValue("Factor", strconv.FormatFloat(shock.Factor, 'f', -1, 64), 14)
	PrintKeyValue("Hazard", fmt.Sprintf("%.4f → %.4f", shock.BaseHazardRate, shock.ShockedHazardRate), 14)
	PrintSeparator()
	PrintKeyValue("Base CVA", report.FormatMoney(shock.BaseCVA), 14)
	PrintKeyValue("Shocked CVA", report.FormatMoney(shock.ShockedCVA), 14)
	PrintKeyValue("Δ CVA", report.FormatMoney(shock.DeltaCVA), 14)
	PrintDoubleSeparator()

	return nil
}
