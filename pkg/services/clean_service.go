// Package services contains the application services wiring the dedup
// engine to file I/O and run bookkeeping.
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dedupkit/dedup-engine/pkg/apperrors"
	"github.com/dedupkit/dedup-engine/pkg/dedup"
	"github.com/dedupkit/dedup-engine/pkg/models"
	"github.com/dedupkit/dedup-engine/pkg/repositories"
	"github.com/dedupkit/dedup-engine/pkg/tabio"
)

// CleanResult is the outcome of one cleaning run: the report, the rendered
// cleaned file, and the name it should be downloaded under.
type CleanResult struct {
	Run         *models.CleaningRun
	Report      *models.Report
	Data        []byte
	Filename    string
	ContentType string
}

// CleanService runs the dedup pipeline on uploaded spreadsheets and keeps
// cleaned files available for download.
type CleanService interface {
	// Clean reads a spreadsheet, deduplicates it and returns the result.
	// The result stays downloadable via GetResult until its TTL expires.
	Clean(ctx context.Context, filename string, r io.Reader) (*CleanResult, error)

	// GetResult returns a previously produced result, or ErrRunNotFound if
	// it never existed or has expired.
	GetResult(id uuid.UUID) (*CleanResult, error)

	// GetRun returns the run record for one cleaning run.
	GetRun(ctx context.Context, id uuid.UUID) (*models.CleaningRun, error)

	// ListRuns returns recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*models.CleaningRun, error)
}

type cachedResult struct {
	result    *CleanResult
	expiresAt time.Time
}

type cleanService struct {
	opts   dedup.Options
	runs   repositories.RunRepository // nil when run history is disabled
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	results map[uuid.UUID]cachedResult
}

// NewCleanService creates a CleanService. The repository may be nil, in
// which case run history lives only in memory for the result TTL.
func NewCleanService(opts dedup.Options, runs repositories.RunRepository, ttl time.Duration, logger *zap.Logger) CleanService {
	return &cleanService{
		opts:    opts,
		runs:    runs,
		ttl:     ttl,
		logger:  logger,
		results: make(map[uuid.UUID]cachedResult),
	}
}

var _ CleanService = (*cleanService)(nil)

func (s *cleanService) Clean(ctx context.Context, filename string, r io.Reader) (*CleanResult, error) {
	table, format, err := tabio.Read(r, filename)
	if err != nil {
		return nil, err
	}

	cleaned, report, err := dedup.Clean(table, s.opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tabio.Write(&buf, cleaned, format); err != nil {
		return nil, fmt.Errorf("failed to render cleaned file: %w", err)
	}

	run := &models.CleaningRun{
		ID:               uuid.New(),
		Filename:         filename,
		Format:           string(format),
		InputRows:        report.InputRows,
		CleanedRows:      report.CleanedRows,
		RowsRemoved:      report.RowsRemoved,
		DuplicateGroups:  report.DuplicateGroups,
		UnparseableDates: report.UnparseableDates,
		IdentifierColumn: report.IdentifierColumn,
		DateColumn:       report.DateColumn,
		CreatedAt:        time.Now(),
	}

	result := &CleanResult{
		Run:         run,
		Report:      report,
		Data:        buf.Bytes(),
		Filename:    downloadFilename(filename, run.CreatedAt, format),
		ContentType: contentType(format),
	}

	// Run history is bookkeeping; a write failure must not lose the
	// cleaned file the caller is waiting for.
	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			s.logger.Warn("Failed to persist cleaning run",
				zap.String("run_id", run.ID.String()),
				zap.Error(err))
		}
	}

	s.store(result)

	s.logger.Info("Cleaned spreadsheet",
		zap.String("run_id", run.ID.String()),
		zap.String("filename", filename),
		zap.Int("input_rows", report.InputRows),
		zap.Int("rows_removed", report.RowsRemoved),
		zap.Int("duplicate_groups", report.DuplicateGroups))

	return result, nil
}

func (s *cleanService) GetResult(id uuid.UUID) (*CleanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.results[id]
	if !ok || time.Now().After(cached.expiresAt) {
		delete(s.results, id)
		return nil, apperrors.ErrRunNotFound
	}
	return cached.result, nil
}

func (s *cleanService) GetRun(ctx context.Context, id uuid.UUID) (*models.CleaningRun, error) {
	if result, err := s.GetResult(id); err == nil {
		return result.Run, nil
	}
	if s.runs != nil {
		return s.runs.GetByID(ctx, id)
	}
	return nil, apperrors.ErrRunNotFound
}

func (s *cleanService) ListRuns(ctx context.Context, limit int) ([]*models.CleaningRun, error) {
	if s.runs != nil {
		return s.runs.List(ctx, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	runs := make([]*models.CleaningRun, 0, len(s.results))
	for id, cached := range s.results {
		if now.After(cached.expiresAt) {
			delete(s.results, id)
			continue
		}
		runs = append(runs, cached.result.Run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *cleanService) store(result *CleanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, cached := range s.results {
		if now.After(cached.expiresAt) {
			delete(s.results, id)
		}
	}
	s.results[result.Run.ID] = cachedResult{
		result:    result,
		expiresAt: now.Add(s.ttl),
	}
}

// downloadFilename derives the cleaned file's download name from the upload:
// base_SinDuplicados_20060102_150405 plus the format's extension.
func downloadFilename(original string, at time.Time, format tabio.Format) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	if base == "" {
		base = "resultado"
	}
	return fmt.Sprintf("%s_SinDuplicados_%s.%s", base, at.Format("20060102_150405"), format)
}

func contentType(format tabio.Format) string {
	switch format {
	case tabio.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case tabio.FormatCSV:
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
