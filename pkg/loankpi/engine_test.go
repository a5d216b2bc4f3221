package loankpi

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/report"
)

func writeRepaymentWorkbook(t *testing.T, path string, repaid, arrears float64) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Sept 2025"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	f.SetCellValue("Sept 2025", "B36", "Repaid")
	f.SetCellValue("Sept 2025", "C36", repaid)
	f.SetCellValue("Sept 2025", "B37", "Arrears")
	f.SetCellValue("Sept 2025", "C37", arrears)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
}

func testOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.DataDir = t.TempDir()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func TestEngineRun(t *testing.T) {
	opts := testOptions(t)
	path := opts.WorkbookPath(report.ProgramPremier)
	writeRepaymentWorkbook(t, path, 750, 250)

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := e.Run("premier-repayment-status")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got := out.(*models.Repayment)
	if got.RepaymentPercent != 75 || got.ArrearsPercent != 25 || got.Total != 1000 {
		t.Errorf("Unexpected result %+v", got)
	}

	// A replaced workbook is read on the next run.
	writeRepaymentWorkbook(t, path, 100, 300)
	out, err = e.Run("premier-repayment-status")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := out.(*models.Repayment); got.RepaymentPercent != 25 {
		t.Errorf("Expected the replaced workbook to be read, got %+v", got)
	}
}

func TestEngineRunErrors(t *testing.T) {
	opts := testOptions(t)
	writeRepaymentWorkbook(t, opts.WorkbookPath(report.ProgramPremier), 1, 1)
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name   string
		report string
		target error
	}{
		{"unknown report", "no-such-report", ErrUnknownReport},
		{"missing workbook", "sasl-loan-cycles", parser.ErrFileUnavailable},
		{"missing sheet", "baseline-data", parser.ErrSheetNotFound},
	}

	for _, tt := range tests {
		_, err := e.Run(tt.report)
		if !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
		var reportErr *ReportError
		if !errors.As(err, &reportErr) || reportErr.Report != tt.report {
			t.Errorf("%s: expected *ReportError for %q, got %v", tt.name, tt.report, err)
		}
	}
}

func TestEngineReports(t *testing.T) {
	e := NewWithRegistry(testOptions(t), report.Builtin())
	infos := e.Reports()
	if len(infos) != 13 {
		t.Fatalf("Expected 13 reports, got %d", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Errorf("Reports not sorted: %q before %q", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestNewAppliesReportsFile(t *testing.T) {
	opts := testOptions(t)
	opts.ReportsFile = filepath.Join(opts.DataDir, "reports.yaml")
	overrides := "reports:\n  premier-repayment-status:\n    sheet:\n      all: [\"portfolio\"]\n"
	if err := os.WriteFile(opts.ReportsFile, []byte(overrides), 0o644); err != nil {
		t.Fatal(err)
	}
	writeRepaymentWorkbook(t, opts.WorkbookPath(report.ProgramPremier), 1, 1)

	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := e.Run("premier-repayment-status"); !errors.Is(err, parser.ErrSheetNotFound) {
		t.Errorf("Expected the override to change the sheet matcher, got %v", err)
	}

	opts.ReportsFile = filepath.Join(opts.DataDir, "missing.yaml")
	if _, err := New(opts); err == nil {
		t.Error("Expected error for missing reports file")
	}
}

func TestEngineInspect(t *testing.T) {
	opts := testOptions(t)
	writeRepaymentWorkbook(t, opts.WorkbookPath(report.ProgramPremier), 1, 1)
	e := NewWithRegistry(opts, report.Builtin())

	sheets, err := e.Inspect("Premier")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(sheets) != 1 || sheets[0].Name != "Sept 2025" {
		t.Errorf("Unexpected sheets %+v", sheets)
	}

	if _, err := e.Inspect(filepath.Join(opts.DataDir, "nope.xlsx")); !errors.Is(err, parser.ErrFileUnavailable) {
		t.Errorf("Expected ErrFileUnavailable, got %v", err)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/data")
	t.Setenv(EnvSASLFile, "/elsewhere/sasl.xlsx")
	t.Setenv(EnvPremierFile, "")

	opts := OptionsFromEnv()
	if got := opts.WorkbookPath(report.ProgramPremier); got != filepath.Join("/data", DefaultPremierFile) {
		t.Errorf("Unexpected premier path %q", got)
	}
	if got := opts.WorkbookPath(report.ProgramSASL); got != "/elsewhere/sasl.xlsx" {
		t.Errorf("Unexpected SASL path %q", got)
	}
}
