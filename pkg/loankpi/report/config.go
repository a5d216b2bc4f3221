package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

// Overrides adjusts built-in report definitions without code changes when a
// workbook layout drifts.
type Overrides struct {
	Reports map[string]ReportOverride `yaml:"reports"`
}

// ReportOverride changes one report. Zero values leave the built-in
// setting untouched.
type ReportOverride struct {
	Sheet      *parser.SheetMatcher     `yaml:"sheet"`
	HeaderRow  *int                     `yaml:"headerRow"`
	Fields     map[string]FieldOverride `yaml:"fields"`
	Currency   *CurrencyPolicy          `yaml:"currency"`
	Limit      *int                     `yaml:"limit"`
	SkipLabels []string                 `yaml:"skipLabels"`
}

// FieldOverride changes how one field is located and validated. Column is
// a letter such as "AQ"; spans are written "AO:AY".
type FieldOverride struct {
	Headers  []string `yaml:"headers"`
	Column   string   `yaml:"column"`
	Spans    []string `yaml:"spans"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
	Positive *bool    `yaml:"positive"`
	Optional *bool    `yaml:"optional"`
}

// LoadOverrides reads a YAML override file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report overrides: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes YAML override data.
func ParseOverrides(data []byte) (*Overrides, error) {
	var o Overrides
	if err := yaml.UnmarshalStrict(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse report overrides: %w", err)
	}
	return &o, nil
}

// Apply modifies the registry's reports in place. Unknown report or field
// names are errors so that a typo never silently keeps the old layout.
func (o *Overrides) Apply(reg *Registry) error {
	names := make([]string, 0, len(o.Reports))
	for name := range o.Reports {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rep, ok := reg.Lookup(name)
		if !ok {
			return fmt.Errorf("override for unknown report %q", name)
		}
		if err := o.Reports[name].apply(rep); err != nil {
			return fmt.Errorf("report %q: %w", name, err)
		}
	}
	return nil
}

func (ro ReportOverride) apply(rep Report) error {
	var (
		currency *CurrencyPolicy
		skip     *[]string
		limit    *int
	)
	switch r := rep.(type) {
	case *Baseline:
		currency = &r.Currency
	case *Portfolio:
		currency, skip = &r.Currency, &r.SkipLabels
	case *Series:
		skip = &r.SkipLabels
	case *Breakdown:
		limit = &r.Limit
	}
	if ro.Currency != nil && currency == nil {
		return errors.New("currency does not apply to this report")
	}
	if ro.SkipLabels != nil && skip == nil {
		return errors.New("skipLabels does not apply to this report")
	}
	if ro.Limit != nil && limit == nil {
		return errors.New("limit does not apply to this report")
	}

	meta := rep.Definition()
	if ro.Sheet != nil {
		meta.Sheet = *ro.Sheet
	}
	if ro.HeaderRow != nil {
		if *ro.HeaderRow < 0 {
			return fmt.Errorf("negative header row %d", *ro.HeaderRow)
		}
		meta.HeaderRow = *ro.HeaderRow
	}

	for name, fo := range ro.Fields {
		field := meta.Field(name)
		if field == nil {
			return fmt.Errorf("unknown field %q", name)
		}
		if err := fo.apply(field); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	if ro.Currency != nil {
		*currency = *ro.Currency
	}
	if ro.SkipLabels != nil {
		*skip = ro.SkipLabels
	}
	if ro.Limit != nil {
		*limit = *ro.Limit
	}
	return nil
}

func (fo FieldOverride) apply(f *parser.FieldSpec) error {
	if fo.Headers != nil {
		f.Headers = fo.Headers
	}
	if fo.Column != "" {
		col, err := parser.ParseColumn(fo.Column)
		if err != nil {
			return err
		}
		f.Default = col
	}
	if fo.Spans != nil {
		spans := make([]parser.ColumnSpan, 0, len(fo.Spans))
		for _, s := range fo.Spans {
			span, err := parser.ParseColumnSpan(s)
			if err != nil {
				return err
			}
			spans = append(spans, span)
		}
		f.Spans = spans
	}
	if fo.Min != nil || fo.Max != nil {
		rng := parser.Range{Min: math.Inf(-1), Max: math.Inf(1)}
		if f.Range != nil {
			rng = *f.Range
		}
		if fo.Min != nil {
			rng.Min = *fo.Min
		}
		if fo.Max != nil {
			rng.Max = *fo.Max
		}
		if rng.Min > rng.Max {
			return fmt.Errorf("range min %v exceeds max %v", rng.Min, rng.Max)
		}
		f.Range = &rng
	}
	if fo.Positive != nil {
		f.Positive = *fo.Positive
	}
	if fo.Optional != nil {
		f.Optional = *fo.Optional
	}
	return nil
}
