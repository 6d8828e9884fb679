package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JackRW23/xva-desk-simulator/internal/book"
	"github.com/JackRW23/xva-desk-simulator/internal/report"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

// bookCmd represents the book command
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Trade book (netting set) 관리",
	Long: `PostgreSQL에 저장된 netting set(거래상대방 + 거래)을 관리합니다.
DATABASE_URL이 필요합니다.

Subcommands:
  init    - 스키마 생성
  save    - netting set 저장 (거래 교체)
  list    - netting set 목록
  show    - netting set 상세
  run     - 저장된 netting set XVA 실행
  delete  - netting set 삭제

Example:
  go run ./cmd/xva book init
  go run ./cmd/xva book save SocGen --hazard 0.02 --recovery 0.4 --trade swap:1000000:receiver
  go run ./cmd/xva book run SocGen`,
}

var (
	bookInitCmd = &cobra.Command{
		Use:   "init",
		Short: "스키마 생성",
		RunE:  runBookInit,
	}

	bookSaveCmd = &cobra.Command{
		Use:   "save [name]",
		Short: "netting set 저장",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookSave,
	}

	bookListCmd = &cobra.Command{
		Use:   "list",
		Short: "netting set 목록",
		RunE:  runBookList,
	}

	bookShowCmd = &cobra.Command{
		Use:   "show [name]",
		Short: "netting set 상세",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookShow,
	}

	bookRunCmd = &cobra.Command{
		Use:   "run [name]",
		Short: "저장된 netting set XVA 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookRun,
	}

	bookDeleteCmd = &cobra.Command{
		Use:   "delete [name]",
		Short: "netting set 삭제",
		Args:  cobra.ExactArgs(1),
		RunE:  runBookDelete,
	}
)

var (
	bookHazard   float64
	bookRecovery float64
	bookTrades   []string
)

func init() {
	rootCmd.AddCommand(bookCmd)
	bookCmd.AddCommand(bookInitCmd)
	bookCmd.AddCommand(bookSaveCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookShowCmd)
	bookCmd.AddCommand(bookRunCmd)
	bookCmd.AddCommand(bookDeleteCmd)

	bookSaveCmd.Flags().Float64Var(&bookHazard, "hazard", 0.02, "counterparty hazard rate λ")
	bookSaveCmd.Flags().Float64Var(&bookRecovery, "recovery", 0.4, "counterparty recovery rate R")
	bookSaveCmd.Flags().StringArrayVar(&bookTrades, "trade", nil, "trade kind:notional[:direction[:strike]] (repeatable)")
}

// withBooks opens the trade book for the duration of fn
func withBooks(fn func(ctx context.Context, repo *book.Repository, template xva.Params, engine *xva.Engine) error) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, repo, err := openBooks(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, repo, xva.ParamsFromConfig(cfg.XVA), xva.NewEngine(log))
}

func runBookInit(cmd *cobra.Command, args []string) error {
	return withBooks(func(ctx context.Context, repo *book.Repository, _ xva.Params, _ *xva.Engine) error {
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		PrintSuccess("Trade book schema ready (xva.counterparties, xva.trades)")
		return nil
	})
}

func runBookSave(cmd *cobra.Command, args []string) error {
	trades, err := parseTrades(bookTrades)
	if err != nil {
		return err
	}

	set := &book.NettingSet{
		Counterparty: xva.Counterparty{Name: args[0], HazardRate: bookHazard, RecoveryRate: bookRecovery},
		Trades:       trades,
	}

	return withBooks(func(ctx context.Context, repo *book.Repository, template xva.Params, _ *xva.Engine) error {
		if err := repo.SaveNettingSet(ctx, set, template.Horizon); err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Saved %s with %d trade(s)", set.Counterparty.Name, len(set.Trades)))
		return nil
	})
}

func runBookList(cmd *cobra.Command, args []string) error {
	return withBooks(func(ctx context.Context, repo *book.Repository, _ xva.Params, _ *xva.Engine) error {
		summaries, err := repo.ListNettingSets(ctx)
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			PrintWarning("No netting sets stored. Use `xva book save` to add one.")
			return nil
		}

		widths := []int{20, 12, 12, 8}
		PrintTableHeader([]string{"NAME", "HAZARD", "RECOVERY", "TRADES"}, widths)
		for _, s := range summaries {
			PrintTableRow([]string{
				s.Name,
				strconv.FormatFloat(s.HazardRate, 'f', 4, 64),
				strconv.FormatFloat(s.RecoveryRate, 'f', 2, 64),
				strconv.Itoa(s.TradeCount),
			}, widths)
		}
		return nil
	})
}

func runBookShow(cmd *cobra.Command, args []string) error {
	return withBooks(func(ctx context.Context, repo *book.Repository, _ xva.Params, _ *xva.Engine) error {
		set, err := repo.LoadNettingSet(ctx, args[0])
		if err != nil {
			return err
		}

		PrintHeader("Netting Set: " + set.Counterparty.Name)
		PrintKeyValue("Hazard", strconv.FormatFloat(set.Counterparty.HazardRate, 'f', 4, 64), 10)
		PrintKeyValue("Recovery", strconv.FormatFloat(set.Counterparty.RecoveryRate, 'f', 2, 64), 10)
		PrintSeparator()

		widths := []int{8, 16, 10, 10, 8}
		PrintTableHeader([]string{"KIND", "NOTIONAL", "MATURITY", "DIRECTION", "STRIKE"}, widths)
		for _, t := range set.Trades {
			PrintTableRow([]string{
				t.Kind,
				report.FormatMoney(t.Notional),
				strconv.FormatFloat(t.Maturity, 'f', 2, 64),
				t.Direction,
				formatStrike(t.Strike),
			}, widths)
		}
		return nil
	})
}

func runBookRun(cmd *cobra.Command, args []string) error {
	return withBooks(func(ctx context.Context, repo *book.Repository, template xva.Params, engine *xva.Engine) error {
		set, err := repo.LoadNettingSet(ctx, args[0])
		if err != nil {
			return err
		}

		result, err := engine.Run(ctx, set.Params(template))
		if err != nil {
			return fmt.Errorf("xva run: %w", err)
		}

		printResult(result)
		return nil
	})
}

func runBookDelete(cmd *cobra.Command, args []string) error {
	return withBooks(func(ctx context.Context, repo *book.Repository, _ xva.Params, _ *xva.Engine) error {
		if err := repo.DeleteNettingSet(ctx, args[0]); err != nil {
			return err
		}
		PrintSuccess("Deleted " + args[0])
		return nil
	})
}

// formatStrike 생략된 행사가는 "-"
func formatStrike(strike *float64) string {
	if strike == nil {
		return "-"
	}
	return strconv.FormatFloat(*strike, 'f', 4, 64)
}
