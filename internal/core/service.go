package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/logging"
)

// Service is the single entry point used by the HTTP API and the CLI.
// It validates input, applies filters and runs the import and export
// pipelines on top of a Store.
type Service struct {
	store         Store
	mode          StorageMode
	uploadLimiter *UploadLimiter

	maxFileSize   int64
	importTimeout time.Duration
	exportName    string
}

// NewService wires a store selected at startup. A nil cfg uses defaults.
func NewService(store Store, mode StorageMode, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{
		store:         store,
		mode:          mode,
		uploadLimiter: NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		maxFileSize:   cfg.Upload.MaxFileSize,
		importTimeout: cfg.Upload.Timeout,
		exportName:    cfg.Export.DefaultName,
	}
}

// Mode reports the storage mode chosen at startup.
func (s *Service) Mode() StorageMode {
	return s.mode
}

// MaxFileSize is the largest accepted upload in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// UploadStatus reports import slot usage.
func (s *Service) UploadStatus() UploadLimiterStatus {
	return s.uploadLimiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.uploadLimiter.WaitForDrain(ctx)
}

// List returns the businesses matching f, in store order.
func (s *Service) List(ctx context.Context, f Filter) ([]Business, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	out := make([]Business, 0, len(all))
	for _, b := range all {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Get returns one business or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Business, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a single business.
func (s *Service) Create(ctx context.Context, in BusinessInput) (Business, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Business{}, err
	}
	b, err := s.store.Create(ctx, in)
	if err != nil {
		return Business{}, fmt.Errorf("create business: %w", err)
	}
	return b, nil
}

// Update applies a partial update. Absent fields keep their value.
func (s *Service) Update(ctx context.Context, id string, patch BusinessPatch) (Business, error) {
	patch = patch.Normalize()
	if patch.Empty() {
		return s.store.Get(ctx, id)
	}
	if err := patch.Validate(); err != nil {
		return Business{}, err
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes a business or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// BulkCreate stores every input or none. Validation errors name the
// offending index.
func (s *Service) BulkCreate(ctx context.Context, inputs []BusinessInput) ([]Business, error) {
	normalized := make([]BusinessInput, len(inputs))
	var all ValidationError
	for i, in := range inputs {
		in = in.Normalize()
		if err := in.Validate(); err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return nil, err
			}
			all.Fields = append(all.Fields, ve.WithPrefix(fmt.Sprintf("businesses[%d]", i)).Fields...)
		}
		normalized[i] = in
	}
	if err := all.err(); err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return []Business{}, nil
	}

	created, err := s.store.BulkCreate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("bulk create: %w", err)
	}
	return created, nil
}

// Tags returns every distinct tag in use, sorted.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	seen := make(map[string]bool)
	tags := []string{}
	for _, b := range all {
		for _, t := range b.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags, nil
}

// Export encodes the requested businesses in the requested format.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	format, err := ParseExportFormat(req.Format)
	if err != nil {
		return nil, err
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	selected := SelectBusinesses(all, req.IDs)

	data, err := EncodeExport(format, selected, req.PageBreaks)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	file := &ExportFile{
		Filename:    ExportFilename(req.CustomName, s.exportName, format),
		ContentType: format.ContentType(),
		Data:        data,
	}
	logging.WithFields(ctx, clientLogFields(ctx)...).Info("export completed",
		"format", format,
		"records", len(selected),
		"bytes", len(data),
	)
	return file, nil
}
