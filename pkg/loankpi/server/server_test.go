package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/loankpi-go/pkg/loankpi"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/ingest"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/report"
)

func workbookBytes(t *testing.T, sheet string, cells map[string]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	for addr, v := range cells {
		f.SetCellValue(sheet, addr, v)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) (http.Handler, loankpi.Options) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := loankpi.DefaultOptions()
	opts.DataDir = t.TempDir()
	opts.Logger = log

	premier := workbookBytes(t, "Sept 2025", map[string]interface{}{"C36": 600, "C37": 400})
	if err := os.WriteFile(opts.WorkbookPath(report.ProgramPremier), premier, 0644); err != nil {
		t.Fatal(err)
	}

	engine, err := loankpi.New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	svc := ingest.NewService(opts.IngestTargets(), opts.Inbox(), log)
	return NewHandler(engine, svc, log).Routes(), opts
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleReport(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/api/premier-repayment-status")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Unexpected content type %q", ct)
	}
	var got models.Repayment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got.RepaymentPercent != 60 || got.ArrearsPercent != 40 {
		t.Errorf("Unexpected result %+v", got)
	}
}

func TestHandleReportErrors(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		status   int
		errorMsg string
	}{
		{"unknown report", "/api/nope", http.StatusNotFound, "unknown report"},
		{"sheet not found", "/api/baseline-data", http.StatusNotFound, "sheet not found"},
		{"missing workbook", "/api/sasl-loan-cycles", http.StatusInternalServerError, "workbook unavailable"},
	}

	for _, tt := range tests {
		rec := get(t, h, tt.path)
		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.status, rec.Code)
		}
		var body models.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid JSON: %v", tt.name, err)
		}
		if body.Error != tt.errorMsg {
			t.Errorf("%s: expected error %q, got %q", tt.name, tt.errorMsg, body.Error)
		}
		if tt.name == "sheet not found" && (len(body.AvailableSheets) != 1 || body.AvailableSheets[0] != "Sept 2025") {
			t.Errorf("Expected available sheets in body, got %v", body.AvailableSheets)
		}
	}
}

func TestHandleReports(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/api/reports")
	var infos []models.ReportInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(infos) != 13 {
		t.Errorf("Expected 13 reports, got %d", len(infos))
	}
}

func TestHandleIngest(t *testing.T) {
	h, opts := newTestServer(t)

	replacement := workbookBytes(t, "Sept 2025", map[string]interface{}{"C36": 100, "C37": 300})
	body, _ := json.Marshal(IngestRequest{
		Filename: "premier_oct.xlsx",
		FileData: base64.StdEncoding.EncodeToString(replacement),
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var res models.Ingestion
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !res.Matched || res.TargetFile != filepath.Base(opts.WorkbookPath(report.ProgramPremier)) {
		t.Errorf("Unexpected result %+v", res)
	}

	// The next report request reads the replaced workbook.
	rec = get(t, h, "/api/premier-repayment-status")
	var got models.Repayment
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.RepaymentPercent != 25 {
		t.Errorf("Expected replaced workbook to be served, got %+v", got)
	}
}

func TestHandleIngestQueuesUnmatched(t *testing.T) {
	h, _ := newTestServer(t)

	body, _ := json.Marshal(IngestRequest{
		Filename: "budget.xlsx",
		FileData: base64.StdEncoding.EncodeToString(workbookBytes(t, "Budget", nil)),
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = get(t, h, "/api/ingest/pending")
	var pending []models.PendingUpload
	if err := json.Unmarshal(rec.Body.Bytes(), &pending); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(pending) != 1 || pending[0].Filename != "budget.xlsx" {
		t.Errorf("Unexpected pending %+v", pending)
	}
}

func TestHandleIngestBadRequests(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing fields", `{"filename":"premier.xlsx"}`},
		{"bad base64", `{"filename":"premier.xlsx","file_data":"***"}`},
		{"not a workbook", `{"filename":"premier.xlsx","file_data":"aGVsbG8="}`},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(tt.body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/ingest", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Missing CORS header")
	}
}
