package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/bizdir/internal/logging"
)

// Import parses an uploaded file, validates every row and inserts the
// valid rows with one BulkCreate call. Row problems are reported in the
// result; only file-level problems return an error.
//
// Returns ErrTooManyUploads when no import slot frees up in time.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if err := s.uploadLimiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.uploadLimiter.Release()

	if s.importTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.importTimeout)
		defer cancel()
	}

	log := logging.WithFields(ctx, append([]any{
		"file", req.FileName,
		"bytes", len(req.Data),
		"dry_run", req.DryRun,
	}, clientLogFields(ctx)...)...)
	start := time.Now()

	if s.maxFileSize > 0 && int64(len(req.Data)) > s.maxFileSize {
		return nil, FileTooLargeError(s.maxFileSize)
	}
	if !s.mode.Available() {
		return nil, ErrStorageUnavailable
	}

	sheet, err := ReadSheet(req.Data)
	if err != nil {
		log.Warn("import rejected", "error", err)
		return nil, err
	}
	log.Info("import started", "rows", len(sheet.Rows), "columns", len(sheet.Headers))

	plan := PlanImport(sheet, req.Tags)
	result := &ImportResult{
		Failed:     len(plan.Errors),
		Errors:     plan.Errors,
		Businesses: []Business{},
		DryRun:     req.DryRun,
	}

	switch {
	case req.DryRun:
		for _, in := range plan.Valid {
			result.Businesses = append(result.Businesses, NewBusiness("", in))
		}
	case len(plan.Valid) > 0:
		created, err := s.store.BulkCreate(ctx, plan.Valid)
		if err != nil {
			log.Error("import insert failed", "error", err, "valid_rows", len(plan.Valid))
			return nil, fmt.Errorf("import %s: %w", req.FileName, err)
		}
		result.Businesses = created
	}

	result.Imported = len(plan.Valid)
	result.Success = result.Failed == 0

	level := slog.LevelInfo
	if result.Partial() {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "import completed",
		"imported", result.Imported,
		"failed", result.Failed,
		"duration", time.Since(start),
	)
	return result, nil
}
