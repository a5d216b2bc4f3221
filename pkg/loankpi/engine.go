package loankpi

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/report"
)

// Engine runs reports against the workbooks on disk. Every run reads the
// workbook afresh, so a replaced file is picked up by the next request.
type Engine struct {
	opts Options
	reg  *report.Registry
	log  *slog.Logger
}

// New creates an engine with the built-in reports and, when
// opts.ReportsFile is set, applies its overrides.
func New(opts Options) (*Engine, error) {
	reg := report.Builtin()
	if opts.ReportsFile != "" {
		overrides, err := report.LoadOverrides(opts.ReportsFile)
		if err != nil {
			return nil, err
		}
		if err := overrides.Apply(reg); err != nil {
			return nil, fmt.Errorf("failed to apply %s: %w", opts.ReportsFile, err)
		}
	}
	return NewWithRegistry(opts, reg), nil
}

// NewWithRegistry creates an engine serving the given reports.
func NewWithRegistry(opts Options, reg *report.Registry) *Engine {
	return &Engine{opts: opts, reg: reg, log: opts.logger()}
}

// Reports describes every available report, sorted by name.
func (e *Engine) Reports() []models.ReportInfo {
	names := e.reg.Names()
	out := make([]models.ReportInfo, 0, len(names))
	for _, name := range names {
		rep, _ := e.reg.Lookup(name)
		meta := rep.Definition()
		out = append(out, models.ReportInfo{
			Name:    meta.Name,
			Program: string(meta.Program),
			Title:   meta.Title,
		})
	}
	return out
}

// Run loads the report's workbook and computes the report. Errors are
// *ReportError values wrapping ErrUnknownReport or a parser error.
func (e *Engine) Run(name string) (interface{}, error) {
	rep, ok := e.reg.Lookup(name)
	if !ok {
		return nil, NewReportError(name, ErrUnknownReport)
	}
	meta := rep.Definition()

	start := time.Now()
	path := e.opts.WorkbookPath(meta.Program)
	wb, err := parser.LoadWorkbook(path)
	if err != nil {
		return nil, NewReportError(name, err)
	}

	out, err := e.Compute(rep, wb)
	if err != nil {
		return nil, err
	}
	e.log.Debug("report computed", "report", name, "workbook", wb.Name, "elapsed", time.Since(start))
	return out, nil
}

// Compute runs one report against an already-loaded workbook.
func (e *Engine) Compute(rep report.Report, wb *parser.Workbook) (interface{}, error) {
	name := rep.Definition().Name
	out, err := rep.Compute(wb, e.log.With("workbook", wb.Name))
	if err != nil {
		var notFound *parser.SheetNotFoundError
		if errors.As(err, &notFound) {
			e.log.Warn("sheet not found", "report", name, "available", notFound.Available)
		}
		return nil, NewReportError(name, err)
	}
	return out, nil
}

// Inspect lists the sheets of a workbook. target is a programme name
// ("premier", "sasl") or a path to an xlsx file.
func (e *Engine) Inspect(target string) ([]parser.SheetInfo, error) {
	path := target
	switch report.Program(strings.ToLower(target)) {
	case report.ProgramPremier, report.ProgramSASL:
		path = e.opts.WorkbookPath(report.Program(strings.ToLower(target)))
	default:
		if _, err := os.Stat(target); err != nil {
			return nil, &parser.FileError{Path: target, Err: err}
		}
	}

	wb, err := parser.LoadWorkbook(path)
	if err != nil {
		return nil, err
	}
	return wb.Inspect(), nil
}
