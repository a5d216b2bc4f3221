package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSheetNotFound indicates no sheet name satisfied a matcher.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrColumnNotFound indicates a required field resolved to no column.
var ErrColumnNotFound = errors.New("column not found")

// ErrFileUnavailable indicates the workbook could not be read.
var ErrFileUnavailable = errors.New("file unavailable")

// SheetNotFoundError lists the sheets that were available when a matcher
// found nothing.
type SheetNotFoundError struct {
	Matcher   SheetMatcher
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("no sheet matching %s (available: %s)", e.Matcher, strings.Join(e.Available, ", "))
}

func (e *SheetNotFoundError) Unwrap() error {
	return ErrSheetNotFound
}

// ColumnNotFoundError names the field that could not be located.
type ColumnNotFoundError struct {
	Sheet string
	Field string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("no column for field %q in sheet %q", e.Field, e.Sheet)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// FileError wraps a failure to open or read a workbook.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v: %v", ErrFileUnavailable, e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FileError) Unwrap() []error {
	return []error{ErrFileUnavailable, e.Err}
}

// SheetError represents a failure while reading one sheet.
type SheetError struct {
	SheetName string
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("read error in sheet %q: %v", e.SheetName, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Err:       err,
	}
}
