package report

import (
	"log/slog"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/stats"
)

// Breakdown sums an amount column per category label and lists the
// categories by amount, largest first.
type Breakdown struct {
	Meta
	// Key names the label field, such as FieldPurpose or FieldBranch.
	Key string
	// Limit keeps only the top entries when positive.
	Limit int
}

func (r *Breakdown) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	plan := aggregate.Plan{
		Breakdowns: []aggregate.Breakdown{{Name: r.Key, Key: r.Key, Amount: FieldAmount}},
	}
	acc, err := r.pass(wb, plan, log)
	if err != nil {
		return nil, err
	}

	ranked := stats.Rank(acc.Breakdown(r.Key), r.Limit)
	out := make([]models.CategoryAmount, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, models.CategoryAmount{Category: e.Label, Amount: e.Amount})
	}
	return out, nil
}
