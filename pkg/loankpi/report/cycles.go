package report

import (
	"log/slog"
	"strconv"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

// Cycles counts loans per loan cycle, listing every cycle from 1 to
// MaxCycle even when it has no loans.
type Cycles struct {
	Meta
	MaxCycle int
}

func (r *Cycles) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	acc, err := r.pass(wb, aggregate.Plan{}, log)
	if err != nil {
		return nil, err
	}

	out := make([]models.CycleCount, 0, r.MaxCycle)
	for cycle := 1; cycle <= r.MaxCycle; cycle++ {
		label := strconv.Itoa(cycle)
		out = append(out, models.CycleCount{Cycle: label, Loans: acc.Count(FieldCycle, label)})
	}
	return out, nil
}
