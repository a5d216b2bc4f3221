package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ColumnSpan is an inclusive range of 0-based column indexes.
type ColumnSpan struct {
	From int
	To   int
}

// ParseColumn converts a column letter such as "AQ" to its 0-based index.
func ParseColumn(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(strings.ReplaceAll(name, "$", "")))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// ParseColumnSpan parses a span written as "AO:AY" or "$AO:$AY". A single
// column such as "AQ" is a span of width one.
func ParseColumnSpan(spanStr string) (ColumnSpan, error) {
	parts := strings.Split(spanStr, ":")
	if len(parts) > 2 {
		return ColumnSpan{}, fmt.Errorf("invalid column span %q", spanStr)
	}

	from, err := ParseColumn(parts[0])
	if err != nil {
		return ColumnSpan{}, err
	}
	to := from
	if len(parts) == 2 {
		to, err = ParseColumn(parts[1])
		if err != nil {
			return ColumnSpan{}, err
		}
	}
	if to < from {
		from, to = to, from
	}

	return ColumnSpan{From: from, To: to}, nil
}
