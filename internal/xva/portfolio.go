package xva

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Portfolio 하나의 거래상대방에 속한 거래 묶음 (netting set)
// 거래끼리는 합산 외에 서로 관여하지 않음
type Portfolio struct {
	trades       []Derivative
	counterparty *Counterparty
}

// NewPortfolio 새 포트폴리오 생성 (거래 0건 허용)
func NewPortfolio(counterparty *Counterparty, trades ...Derivative) *Portfolio {
	owned := make([]Derivative, len(trades))
	copy(owned, trades)
	return &Portfolio{trades: owned, counterparty: counterparty}
}

// Trades 거래 목록 사본
func (p *Portfolio) Trades() []Derivative {
	out := make([]Derivative, len(p.trades))
	copy(out, p.trades)
	return out
}

// Counterparty 연결된 거래상대방 (시나리오 충격 대상)
func (p *Portfolio) Counterparty() *Counterparty {
	return p.counterparty
}

// AggregateExposure 경로 × 시점 포트폴리오 순 평가값 행렬
// 입력 경로 행렬과 동일한 shape, 거래 0건이면 0 행렬
func (p *Portfolio) AggregateExposure(paths mat.Matrix, grid TimeGrid) (*mat.Dense, error) {
	return p.aggregate(context.Background(), paths, grid, 1)
}

// aggregate 시점(열)별로 독립 계산, workers 만큼 병렬
// 각 goroutine은 서로 다른 열에만 쓰므로 결과는 workers와 무관하게 동일
func (p *Portfolio) aggregate(ctx context.Context, paths mat.Matrix, grid TimeGrid, workers int) (*mat.Dense, error) {
	rows, cols := paths.Dims()
	if rows == 0 {
		return nil, shapeMismatch("path matrix rows", rows, 1)
	}
	if cols != grid.Len() {
		return nil, shapeMismatch("path matrix columns", cols, grid.Len())
	}
	if workers < 1 {
		workers = 1
	}

	exposures := mat.NewDense(rows, cols, nil)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for j := 0; j < cols; j++ {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			spot := mat.Col(nil, j, paths)
			column := make([]float64, rows)
			for _, trade := range p.trades {
				floats.Add(column, MarkToMarket(trade, spot, grid[j]))
			}
			exposures.SetCol(j, column)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return exposures, nil
}
