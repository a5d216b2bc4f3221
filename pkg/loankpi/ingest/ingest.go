// Package ingest stores uploaded workbooks. An upload whose file name names
// a programme replaces that programme's workbook; any other upload is held
// in an inbox until someone reviews it.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ukaji3/loankpi-go/pkg/loankpi/models"
	"github.com/ukaji3/loankpi-go/pkg/loankpi/parser"
)

var (
	// ErrEmptyPayload indicates an upload without file content.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrMissingFilename indicates an upload without a usable file name.
	ErrMissingFilename = errors.New("missing filename")
	// ErrInvalidWorkbook indicates the payload is not a readable xlsx file.
	ErrInvalidWorkbook = errors.New("invalid xlsx workbook")
)

// Target routes uploads whose lowercased file name contains Keyword to Path.
type Target struct {
	Keyword string
	Path    string
}

// Service stores uploads. It is safe for concurrent use.
type Service struct {
	targets []Target
	inbox   string
	log     *slog.Logger

	mu      sync.Mutex
	pending []models.PendingUpload
	now     func() time.Time
}

// NewService creates a service. Targets are tried in order and the first
// keyword found in the file name wins. If log is nil, slog.Default() is used.
func NewService(targets []Target, inboxDir string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		targets: targets,
		inbox:   inboxDir,
		log:     log,
		now:     time.Now,
	}
}

// Ingest validates payload and stores it. A matched upload atomically
// replaces the target workbook, so a concurrent reader sees either the old
// or the new file.
func (s *Service) Ingest(filename string, payload []byte) (models.Ingestion, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return models.Ingestion{}, ErrMissingFilename
	}
	if len(payload) == 0 {
		return models.Ingestion{}, ErrEmptyPayload
	}
	wb, err := validate(name, payload)
	if err != nil {
		return models.Ingestion{}, err
	}

	if target, ok := s.match(name); ok {
		if err := writeAtomic(target.Path, payload); err != nil {
			return models.Ingestion{}, fmt.Errorf("failed to replace %s: %w", target.Path, err)
		}
		s.log.Info("workbook replaced", "filename", name, "target", target.Path,
			"bytes", len(payload), "sheets", wb.SheetNames())
		return models.Ingestion{Matched: true, TargetFile: filepath.Base(target.Path)}, nil
	}

	id := uuid.NewString()
	path := filepath.Join(s.inbox, id+"-"+name)
	if err := os.MkdirAll(s.inbox, 0755); err != nil {
		return models.Ingestion{}, fmt.Errorf("failed to create inbox: %w", err)
	}
	if err := writeAtomic(path, payload); err != nil {
		return models.Ingestion{}, fmt.Errorf("failed to queue upload: %w", err)
	}

	s.mu.Lock()
	s.pending = append(s.pending, models.PendingUpload{
		ID:         id,
		Filename:   name,
		Size:       len(payload),
		ReceivedAt: s.now().UTC(),
	})
	queued := len(s.pending)
	s.mu.Unlock()

	s.log.Info("upload queued", "filename", name, "id", id, "pending", queued)
	return models.Ingestion{Matched: false, QueueID: id}, nil
}

// Pending returns a copy of the queued uploads in arrival order.
func (s *Service) Pending() []models.PendingUpload {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PendingUpload, len(s.pending))
	copy(out, s.pending)
	return out
}

func (s *Service) match(name string) (Target, bool) {
	lower := strings.ToLower(name)
	for _, t := range s.targets {
		if t.Keyword != "" && strings.Contains(lower, strings.ToLower(t.Keyword)) {
			return t, true
		}
	}
	return Target{}, false
}

// validate reads payload with the same reader the reports use, so an upload
// that is accepted can also be computed over.
func validate(name string, payload []byte) (*parser.Workbook, error) {
	wb, err := parser.ReadWorkbook(bytes.NewReader(payload), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(wb.SheetNames()) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrInvalidWorkbook)
	}
	return wb, nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".upload-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
