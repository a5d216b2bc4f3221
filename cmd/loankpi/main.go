// Package main provides the CLI entry point for loankpi.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ukaji3/loankpi-go/pkg/loankpi"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/ingest"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/output"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/server"
)

var (
	outputPath  string
	outputDir   string
	pretty      bool
	dataDir     string
	reportsFile string
	logLevel    string
	addr        string
	allReports  bool
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "loankpi",
		Short: "Compute loan portfolio KPIs from monthly loan report workbooks",
		Long: `loankpi reads the Premier Credit and SASL monthly loan report workbooks
and outputs dashboard KPIs as JSON.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the workbooks (env "+loankpi.EnvDataDir+")")
	rootCmd.PersistentFlags().StringVar(&reportsFile, "reports", "", "YAML report overrides (env "+loankpi.EnvReportsFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOANKPI_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	reportCmd := &cobra.Command{
		Use:   "report [name...]",
		Short: "Compute reports and print them as JSON",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	reportCmd.Flags().StringVar(&outputDir, "dir", "", "Directory for per-report output files")
	reportCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	reportCmd.Flags().BoolVar(&allReports, "all", false, "Compute every report")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available reports",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	sheetsCmd := &cobra.Command{
		Use:   "sheets <premier|sasl|path.xlsx>",
		Short: "Show the sheets of a workbook and their data ranges",
		Args:  cobra.ExactArgs(1),
		RunE:  runSheets,
	}
	sheetsCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", envOr("LOANKPI_ADDR", ":8080"), "Listen address")

	ingestCmd := &cobra.Command{
		Use:   "ingest <file.xlsx>",
		Short: "Replace a programme workbook, or queue the file in the inbox",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	rootCmd.AddCommand(reportCmd, listCmd, sheetsCmd, serveCmd, ingestCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %s", logLevel)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func options() (loankpi.Options, error) {
	log, err := newLogger()
	if err != nil {
		return loankpi.Options{}, err
	}
	opts := loankpi.OptionsFromEnv()
	if dataDir != "" {
		opts.DataDir = dataDir
	}
	if reportsFile != "" {
		opts.ReportsFile = reportsFile
	}
	opts.Logger = log
	return opts, nil
}

func newEngine() (*loankpi.Engine, error) {
	opts, err := options()
	if err != nil {
		return nil, err
	}
	return loankpi.New(opts)
}

func runReport(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	names := args
	if allReports {
		names = nil
		for _, info := range engine.Reports() {
			names = append(names, info.Name)
		}
	}
	if len(names) == 0 {
		return errors.New("no report named (use --all or see 'loankpi list')")
	}
	if len(names) > 1 && outputDir == "" && outputPath != "" {
		return errors.New("--output takes a single report; use --dir for several")
	}

	if outputDir != "" {
		return writeReportFiles(engine, names, outputDir)
	}

	for _, name := range names {
		result, err := engine.Run(name)
		if err != nil {
			return err
		}

		// Serialize to JSON
		jsonData, err := output.ToJSON(result, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}

		if outputPath != "" {
			if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			continue
		}
		fmt.Println(string(jsonData))
	}
	return nil
}

// writeReportFiles writes one <name>.json per report. A failing report is
// reported and the remaining ones are still written.
func writeReportFiles(engine *loankpi.Engine, names []string, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var failed []string
	for _, name := range names {
		result, err := engine.Run(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed = append(failed, name)
			continue
		}
		jsonData, err := output.ToJSON(result, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d report(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	for _, info := range engine.Reports() {
		fmt.Printf("%-32s %-8s %s\n", info.Name, info.Program, info.Title)
	}
	return nil
}

func runSheets(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	sheets, err := engine.Inspect(args[0])
	if err != nil {
		return err
	}
	jsonData, err := output.ToJSON(sheets, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := options()
	if err != nil {
		return err
	}
	engine, err := loankpi.New(opts)
	if err != nil {
		return err
	}
	svc := ingest.NewService(opts.IngestTargets(), opts.Inbox(), opts.Logger)
	handler := server.NewHandler(engine, svc, opts.Logger)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	opts.Logger.Info("listening", "addr", addr, "dataDir", opts.DataDir)
	return srv.ListenAndServe()
}

func runIngest(cmd *cobra.Command, args []string) error {
	opts, err := options()
	if err != nil {
		return err
	}
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	svc := ingest.NewService(opts.IngestTargets(), opts.Inbox(), opts.Logger)
	res, err := svc.Ingest(filepath.Base(args[0]), payload)
	if err != nil {
		return err
	}
	jsonData, err := output.ToJSON(res, false)
	if err != nil {
		return err
	}
	fmt.Println(string(jsonData))
	return nil
}
