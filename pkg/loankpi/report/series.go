package report

import (
	"log/slog"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/aggregate"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/stats"
)

// Series lists one point per data row in sheet order, skipping total lines.
type Series struct {
	Meta
	SkipLabels []string
}

func (r *Series) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	plan := aggregate.Plan{
		SkipLabels: r.SkipLabels,
		Series: []aggregate.SeriesSpec{{
			Name: r.Name, Label: FieldPeriod, Value: FieldValue, Volume: FieldVolume,
		}},
	}
	acc, err := r.pass(wb, plan, log)
	if err != nil {
		return nil, err
	}

	points := acc.Series(r.Name)
	out := make([]models.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, models.SeriesPoint{
			Period: p.Label,
			Value:  stats.Round(p.Value),
			Volume: stats.Round(p.Volume),
		})
	}
	return out, nil
}
