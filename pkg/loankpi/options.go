// Package loankpi computes dashboard KPIs from the monthly loan report
// workbooks of the Premier Credit and SASL programmes.
package loankpi

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/ingest"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/report"
)

const (
	// DefaultPremierFile is the Premier Credit workbook name.
	DefaultPremierFile = "Monthly Loan Reports-Premier Credit.xlsx"
	// DefaultSASLFile is the SASL workbook name.
	DefaultSASLFile = "Monthly Loans Reports_SASL.xlsx"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvDataDir     = "LOANKPI_DATA_DIR"
	EnvPremierFile = "LOANKPI_PREMIER_FILE"
	EnvSASLFile    = "LOANKPI_SASL_FILE"
	EnvReportsFile = "LOANKPI_REPORTS_FILE"
	EnvInboxDir    = "LOANKPI_INBOX_DIR"
)

// Options configures where workbooks are read from.
type Options struct {
	// DataDir holds both programme workbooks.
	DataDir string
	// PremierFile and SASLFile are file names inside DataDir, or absolute
	// paths.
	PremierFile string
	SASLFile    string
	// ReportsFile is an optional YAML file of report overrides.
	ReportsFile string
	// InboxDir holds uploads that match no programme. Defaults to
	// DataDir/inbox.
	InboxDir string
	// Logger receives diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns options for the standard workbook names in the
// working directory.
func DefaultOptions() Options {
	return Options{
		DataDir:     ".",
		PremierFile: DefaultPremierFile,
		SASLFile:    DefaultSASLFile,
	}
}

// OptionsFromEnv returns DefaultOptions with any LOANKPI_* variables applied.
func OptionsFromEnv() Options {
	opts := DefaultOptions()
	if v := os.Getenv(EnvDataDir); v != "" {
		opts.DataDir = v
	}
	if v := os.Getenv(EnvPremierFile); v != "" {
		opts.PremierFile = v
	}
	if v := os.Getenv(EnvSASLFile); v != "" {
		opts.SASLFile = v
	}
	if v := os.Getenv(EnvReportsFile); v != "" {
		opts.ReportsFile = v
	}
	if v := os.Getenv(EnvInboxDir); v != "" {
		opts.InboxDir = v
	}
	return opts
}

// WorkbookPath returns the path of a programme's workbook.
func (o Options) WorkbookPath(p report.Program) string {
	name := o.PremierFile
	if p == report.ProgramSASL {
		name = o.SASLFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.DataDir, name)
}

// Inbox returns the directory for unmatched uploads.
func (o Options) Inbox() string {
	if o.InboxDir != "" {
		return o.InboxDir
	}
	return filepath.Join(o.DataDir, "inbox")
}

// IngestTargets routes uploads whose file name names a programme to that
// programme's workbook.
func (o Options) IngestTargets() []ingest.Target {
	return []ingest.Target{
		{Keyword: string(report.ProgramSASL), Path: o.WorkbookPath(report.ProgramSASL)},
		{Keyword: string(report.ProgramPremier), Path: o.WorkbookPath(report.ProgramPremier)},
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
