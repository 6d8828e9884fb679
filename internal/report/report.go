package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/leekchan/accounting"

	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

// ═══════════════════════════════════════════════════════════
// Output formatting
// 모든 출력면(CLI, API, 로그)이 같은 통화 포맷을 쓰도록 통일
// ═══════════════════════════════════════════════════════════

// Series labels
const (
	EPELabel = "EPE (Expected Positive Exposure)"
	ENELabel = "ENE (Expected Negative Exposure)"
)

// FormatMoney 천 단위 구분 + 소수점 2자리 (예: 1,234.56)
// accounting.Accounting은 첫 호출 때 자기 필드를 채우므로 호출마다 새로 만듦
func FormatMoney(v float64) string {
	ac := accounting.Accounting{Precision: 2, Thousand: ",", Decimal: "."}
	return ac.FormatMoney(v)
}

// Series 시간축에 대한 하나의 선 그래프 데이터
type Series struct {
	Label  string    `json:"label"`
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// ExposureSeries EPE/ENE 두 개의 시계열
func ExposureSeries(profile xva.ExposureProfile) []Series {
	return []Series{
		{Label: EPELabel, Times: profile.Times, Values: profile.EPE},
		{Label: ENELabel, Times: profile.Times, Values: profile.ENE},
	}
}

// Summary CVA/DVA 텍스트 요약
func Summary(result *xva.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CVA: %s\n", FormatMoney(result.CVA))
	fmt.Fprintf(&b, "DVA: %s\n", FormatMoney(result.DVA))
	return b.String()
}

// Formatted API 응답용 포맷된 금액
type Formatted struct {
	CVA     string `json:"cva"`
	DVA     string `json:"dva"`
	PeakEPE string `json:"peak_epe"`
}

// Format 결과의 주요 금액을 문자열로
func Format(result *xva.Result) Formatted {
	return Formatted{
		CVA:     FormatMoney(result.CVA),
		DVA:     FormatMoney(result.DVA),
		PeakEPE: FormatMoney(result.PeakEPE),
	}
}

// WriteTable 익스포저 프로파일 표 출력
func WriteTable(w io.Writer, result *xva.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := "t\tEPE\tENE\tDF\t"
	if len(result.PFE) > 0 {
		header = "t\tEPE\tENE\tPFE\tDF\t"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := fmt.Sprintf("%.4f\t%s\t%s\t", t, FormatMoney(result.EPE[i]), FormatMoney(result.ENE[i]))
		if len(result.PFE) > 0 {
			row += FormatMoney(result.PFE[i]) + "\t"
		}
		row += fmt.Sprintf("%.6f\t", result.DiscountFactors[i])
		if _, err := fmt.Fprintln(tw, row); err != nil {
			return err
		}
	}

	return tw.Flush()
}
