package xva

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ExposureProfile 시점별 기대 익스포저
type ExposureProfile struct {
	Times TimeGrid  `json:"times"`
	EPE   []float64 `json:"epe"`
	ENE   []float64 `json:"ene"`
}

// ExpectedExposure 열(시점)별 EPE = mean(max(v,0)), ENE = mean(-min(v,0))
// 둘 다 항상 >= 0, 입력은 변경하지 않음
func ExpectedExposure(exposures mat.Matrix) (epe, ene []float64) {
	rows, cols := exposures.Dims()
	epe = make([]float64, cols)
	ene = make([]float64, cols)

	column := make([]float64, rows)
	positive := make([]float64, rows)
	negative := make([]float64, rows)

	for j := 0; j < cols; j++ {
		mat.Col(column, j, exposures)
		for i, v := range column {
			positive[i], negative[i] = 0, 0
			if v > 0 {
				positive[i] = v
			} else if v < 0 {
				negative[i] = -v
			}
		}
		epe[j] = stat.Mean(positive, nil)
		ene[j] = stat.Mean(negative, nil)
	}

	return epe, ene
}

// NewExposureProfile 노출 행렬을 격자와 함께 프로파일로 축약
func NewExposureProfile(exposures mat.Matrix, grid TimeGrid) (ExposureProfile, error) {
	_, cols := exposures.Dims()
	if cols != grid.Len() {
		return ExposureProfile{}, shapeMismatch("exposure matrix columns", cols, grid.Len())
	}
	epe, ene := ExpectedExposure(exposures)
	return ExposureProfile{Times: grid, EPE: epe, ENE: ene}, nil
}

// PotentialFutureExposure 시점별 양(+)의 익스포저 경험적 q-분위수 (PFE)
func PotentialFutureExposure(exposures mat.Matrix, quantile float64) ([]float64, error) {
	if !(quantile > 0 && quantile < 1) {
		return nil, invalidParam("pfe_quantile", quantile, "must be in (0, 1)")
	}

	rows, cols := exposures.Dims()
	pfe := make([]float64, cols)
	sorted := make([]float64, rows)

	for j := 0; j < cols; j++ {
		mat.Col(sorted, j, exposures)
		for i, v := range sorted {
			if v < 0 {
				sorted[i] = 0
			}
		}
		sort.Float64s(sorted)
		pfe[j] = stat.Quantile(quantile, stat.Empirical, sorted, nil)
	}

	return pfe, nil
}

// PeakExposure 최대 EPE와 그 시점
func PeakExposure(times TimeGrid, epe []float64) (t, value float64) {
	for i, v := range epe {
		if i == 0 || v > value {
			value = v
			if i < len(times) {
				t = times[i]
			}
		}
	}
	return t, value
}
