package report

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/stats"
)

// YearCells are the fixed cell addresses holding one year's totals.
type YearCells struct {
	Year    string
	Value   string
	Volume  string
	Average string
}

// Summary reads annual disbursement totals from fixed cells. A year whose
// fixed cell is empty or zero falls back to the row labelled with that
// year: volume and value from that row, the average from the row below.
type Summary struct {
	Meta
	Years []YearCells
	// LabelWidth is how many leading cells of a row are searched for a year.
	LabelWidth   int
	ValueColumn  int
	VolumeColumn int
}

type yearTotals struct {
	value, volume, average float64
}

func (r *Summary) Compute(wb *parser.Workbook, log *slog.Logger) (interface{}, error) {
	sheet, err := r.findSheet(wb)
	if err != nil {
		return nil, err
	}

	scanned := r.scan(sheet.Rows)
	out := make([]models.SeriesPoint, 0, len(r.Years))
	for _, y := range r.Years {
		fixed, err := r.fixed(sheet, y)
		if err != nil {
			return nil, err
		}
		found := scanned[y.Year]

		avg := stats.Round(firstNonZero(fixed.average, found.average))
		out = append(out, models.SeriesPoint{
			Period:  y.Year,
			Value:   stats.Round(firstNonZero(fixed.value, found.value)),
			Volume:  stats.Round(firstNonZero(fixed.volume, found.volume)),
			Average: &avg,
		})
	}

	log.Debug("read annual totals", "report", r.Name, "sheet", sheet.Name,
		"years", len(out), "scanned", len(scanned))
	return out, nil
}

func (r *Summary) fixed(sheet *parser.Sheet, y YearCells) (yearTotals, error) {
	var t yearTotals
	var err error
	if t.value, err = cellNumber(sheet, y.Value); err != nil {
		return t, err
	}
	if t.volume, err = cellNumber(sheet, y.Volume); err != nil {
		return t, err
	}
	if y.Average != "" {
		if t.average, err = cellNumber(sheet, y.Average); err != nil {
			return t, err
		}
	}
	return t, nil
}

// scan finds rows whose leading cells mention a configured year. Later rows
// overwrite earlier ones.
func (r *Summary) scan(rows [][]parser.Cell) map[string]yearTotals {
	found := make(map[string]yearTotals)
	pattern := r.yearPattern()
	if pattern == nil {
		return found
	}

	for i, row := range rows {
		width := r.LabelWidth
		if width > len(row) {
			width = len(row)
		}
		for j := 0; j < width; j++ {
			year := pattern.FindString(row[j].Label())
			if year == "" {
				continue
			}
			t := found[year]
			if v, ok := parser.CoerceNumber(parser.At(row, r.VolumeColumn), nil, true); ok {
				t.volume = v
			}
			if v, ok := parser.CoerceNumber(parser.At(row, r.ValueColumn), nil, true); ok {
				t.value = v
			}
			if i+1 < len(rows) {
				if v, ok := parser.CoerceNumber(parser.At(rows[i+1], r.ValueColumn), nil, true); ok {
					t.average = v
				}
			}
			found[year] = t
		}
	}
	return found
}

func (r *Summary) yearPattern() *regexp.Regexp {
	if len(r.Years) == 0 {
		return nil
	}
	quoted := make([]string, len(r.Years))
	for i, y := range r.Years {
		quoted[i] = regexp.QuoteMeta(y.Year)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
