package report

import (
	"log/slog"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/stats"
)

// Repayment reads repaid and in-arrears amounts from fixed cells.
type Repayment struct {
	Meta
	RepaymentCell string
	ArrearsCell   string
}

func (r *Repayment) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	sheet, err := r.findSheet(wb)
	if err != nil {
		return nil, err
	}

	repaid, err := cellNumber(sheet, r.RepaymentCell)
	if err != nil {
		return nil, err
	}
	arrears, err := cellNumber(sheet, r.ArrearsCell)
	if err != nil {
		return nil, err
	}
	log.Debug("read fixed cells", "report", r.Name, "sheet", sheet.Name,
		"repayment", repaid, "arrears", arrears)

	pRepaid, pArrears := stats.Split(repaid, arrears)
	return &models.Repayment{
		Repayment:        stats.Round(repaid),
		Arrears:          stats.Round(arrears),
		Total:            stats.Round(repaid + arrears),
		RepaymentPercent: pRepaid,
		ArrearsPercent:   pArrears,
	}, nil
}

// cellNumber reads a fixed cell as a number; an empty or non-numeric cell
// reads as 0.
func cellNumber(sheet *parser.Sheet, address string) (float64, error) {
	c, err := sheet.CellAt(address)
	if err != nil {
		return 0, err
	}
	v, ok := parser.CoerceNumber(c, nil, false)
	if !ok {
		return 0, nil
	}
	return v, nil
}
