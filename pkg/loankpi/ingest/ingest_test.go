package ingest

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, value string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", value)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	targets := []Target{
		{Keyword: "sasl", Path: filepath.Join(dir, "Monthly Loans Reports_SASL.xlsx")},
		{Keyword: "premier", Path: filepath.Join(dir, "Monthly Loan Reports-Premier Credit.xlsx")},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(targets, filepath.Join(dir, "inbox"), log), dir
}

func TestIngestMatched(t *testing.T) {
	s, dir := newTestService(t)
	payload := workbookBytes(t, "october")

	res, err := s.Ingest("Premier Credit Oct 2025.xlsx", payload)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if !res.Matched || res.TargetFile != "Monthly Loan Reports-Premier Credit.xlsx" || res.QueueID != "" {
		t.Errorf("Unexpected result %+v", res)
	}

	got, err := os.ReadFile(filepath.Join(dir, res.TargetFile))
	if err != nil {
		t.Fatalf("Target not written: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Target content differs from payload")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".xlsx" && e.Name()[0] == '.' {
			t.Errorf("Temporary file left behind: %s", e.Name())
		}
	}
}

func TestIngestReplacesExisting(t *testing.T) {
	s, dir := newTestService(t)
	target := filepath.Join(dir, "Monthly Loans Reports_SASL.xlsx")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	payload := workbookBytes(t, "new")
	if _, err := s.Ingest("sasl_update.xlsx", payload); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	got, _ := os.ReadFile(target)
	if !bytes.Equal(got, payload) {
		t.Error("Expected the SASL workbook to be replaced")
	}
}

func TestIngestUnmatchedIsQueued(t *testing.T) {
	s, dir := newTestService(t)

	res, err := s.Ingest("../budget.xlsx", workbookBytes(t, "budget"))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if res.Matched || res.QueueID == "" {
		t.Fatalf("Expected a queued upload, got %+v", res)
	}

	pending := s.Pending()
	if len(pending) != 1 || pending[0].ID != res.QueueID || pending[0].Filename != "budget.xlsx" {
		t.Errorf("Unexpected pending %+v", pending)
	}
	if _, err := os.Stat(filepath.Join(dir, "inbox", res.QueueID+"-budget.xlsx")); err != nil {
		t.Errorf("Queued file not written: %v", err)
	}

	// Pending returns a copy.
	pending[0].Filename = "changed"
	if s.Pending()[0].Filename != "budget.xlsx" {
		t.Error("Pending exposed internal state")
	}
}

func TestIngestRejects(t *testing.T) {
	s, dir := newTestService(t)

	tests := []struct {
		name     string
		filename string
		payload  []byte
		expected error
	}{
		{"empty payload", "premier.xlsx", nil, ErrEmptyPayload},
		{"missing filename", "  ", []byte("x"), ErrMissingFilename},
		{"not a workbook", "premier.xlsx", []byte("plain text"), ErrInvalidWorkbook},
	}

	for _, tt := range tests {
		_, err := s.Ingest(tt.filename, tt.payload)
		if !errors.Is(err, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "Monthly Loan Reports-Premier Credit.xlsx")); !os.IsNotExist(err) {
		t.Error("Rejected upload must not touch the target")
	}
	if len(s.Pending()) != 0 {
		t.Error("Rejected upload must not be queued")
	}
}

func TestIngestConcurrent(t *testing.T) {
	s, _ := newTestService(t)
	payload := workbookBytes(t, "x")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Ingest("misc.xlsx", payload); err != nil {
				t.Errorf("Ingest failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.Pending()); got != 8 {
		t.Errorf("Expected 8 pending uploads, got %d", got)
	}
}
