package parser

import (
	"errors"
	"strings"
	"testing"
)

func textRow(values ...string) []Cell {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = TextCell(v)
	}
	return row
}

func TestSheetMatcher(t *testing.T) {
	tests := []struct {
		matcher  SheetMatcher
		name     string
		expected bool
	}{
		{SheetMatcher{Any: []string{"baseline", "1st loan"}}, "Baseline Data (1st Loan)", true},
		{SheetMatcher{Any: []string{"baseline", "1st loan"}}, "Data 1st Loan", true},
		{SheetMatcher{All: []string{"summary", "all loans"}}, "Summary - All Loans", true},
		{SheetMatcher{All: []string{"summary", "all loans"}}, "Summary", false},
		{SheetMatcher{All: []string{"all loans"}, Any: []string{"sept", "2025"}}, "All Loans upto Sept 2025", true},
		{SheetMatcher{All: []string{"all loans"}, Any: []string{"sept", "2025"}}, "All Loans 2024", false},
		{SheetMatcher{}, "anything", true},
	}

	for _, tt := range tests {
		if got := tt.matcher.Match(tt.name); got != tt.expected {
			t.Errorf("%s.Match(%q) = %v, expected %v", tt.matcher, tt.name, got, tt.expected)
		}
	}
}

func TestFindSheetFirstMatchWins(t *testing.T) {
	names := []string{"Cover", "Loan Disb. 2025", "Loan Disb. 2025 (copy)"}
	idx, err := FindSheet(names, SheetMatcher{All: []string{"loan disb", "2025"}})
	if err != nil {
		t.Fatalf("FindSheet failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}
}

func TestFindSheetNotFound(t *testing.T) {
	names := []string{"Cover", "Notes", "Loans 2024"}
	_, err := FindSheet(names, SheetMatcher{All: []string{"baseline"}})
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("Expected ErrSheetNotFound, got %v", err)
	}

	var snf *SheetNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("Expected *SheetNotFoundError, got %T", err)
	}
	if strings.Join(snf.Available, "|") != "Cover|Notes|Loans 2024" {
		t.Errorf("Unexpected available sheets %v", snf.Available)
	}
	if !strings.Contains(err.Error(), "Loans 2024") {
		t.Errorf("Expected message to list available sheets, got %q", err.Error())
	}
}

func TestResolveColumn(t *testing.T) {
	header := textRow("Loan ID", "Branch", "Amount", "Loan Purpose", "Purpose Notes")
	rows := [][]Cell{
		{TextCell("L1"), TextCell("Nairobi"), {}, TextCell("Fees"), {}, {}, NumberCell(3), NumberCell(45000)},
	}
	feeRange := &Range{Min: 1000, Max: 500000}

	tests := []struct {
		name     string
		field    FieldSpec
		expected int
		ok       bool
	}{
		{"header wins over default", FieldSpec{Headers: []string{"purpose"}, Default: 9, Kind: KindLabel}, 3, true},
		{"header case-insensitive", FieldSpec{Headers: []string{"BRANCH"}, Default: 0, Kind: KindLabel}, 1, true},
		{"default when header missing", FieldSpec{Headers: []string{"gender"}, Default: 6, Kind: KindCategory}, 6, true},
		{"span skips out-of-range column", FieldSpec{
			Spans:   []ColumnSpan{{From: 5, To: 8}},
			Default: 2, Kind: KindCurrency, Range: feeRange,
		}, 7, true},
		{"span with nothing usable falls back", FieldSpec{
			Spans:   []ColumnSpan{{From: 10, To: 12}},
			Default: 2, Kind: KindCurrency, Range: feeRange,
		}, 2, true},
		{"no default", FieldSpec{Headers: []string{"training"}, Default: -1, Kind: KindCategory}, 0, false},
	}

	for _, tt := range tests {
		got, ok := ResolveColumn(header, rows, tt.field)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("%s: ResolveColumn = (%d, %v), expected (%d, %v)", tt.name, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestResolve(t *testing.T) {
	sheet := NewSheet("Baseline Form", [][]Cell{
		textRow("ID", "Gender", "Fees"),
		textRow("1", "F", "500"),
	})
	wb := NewWorkbook("test.xlsx", NewSheet("Cover", nil), sheet)

	fields := []FieldSpec{
		{Name: "gender", Headers: []string{"gender"}, Default: 4, Kind: KindCategory},
		{Name: "training", Headers: []string{"training"}, Default: -1, Kind: KindCategory, Optional: true},
	}
	res, err := Resolve(wb, SheetMatcher{Any: []string{"baseline"}}, 0, fields)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Sheet != sheet {
		t.Errorf("Expected sheet %q, got %q", sheet.Name, res.Sheet.Name)
	}
	if len(res.Bindings) != 1 || res.Bindings[0].Column != 1 {
		t.Errorf("Unexpected bindings %+v", res.Bindings)
	}
	if len(res.Unbound) != 1 || res.Unbound[0] != "training" {
		t.Errorf("Expected training to be unbound, got %v", res.Unbound)
	}

	fields[1].Optional = false
	_, err = Resolve(wb, SheetMatcher{Any: []string{"baseline"}}, 0, fields)
	var cnf *ColumnNotFoundError
	if !errors.As(err, &cnf) || cnf.Field != "training" {
		t.Errorf("Expected ColumnNotFoundError for training, got %v", err)
	}
}
