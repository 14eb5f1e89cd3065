package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
)

// multipartOverhead is the allowance for form fields and part headers on
// top of the file size limit.
const multipartOverhead = 1 << 20

// multipartMemory is how much of a form is kept in memory before parts
// spill to temporary files.
const multipartMemory = 32 << 20

// importWriteSlack is added to UPLOAD_TIMEOUT for writing the import result.
const importWriteSlack = 30 * time.Second

// handleImport runs the import pipeline on an uploaded spreadsheet.
//
// Form fields:
//   - file: the workbook or CSV file (required)
//   - tags: JSON list (or comma-separated) of tags added to every row
//   - dryRun: validate only when true
//
// Responds 201 when every row was imported and 207 when some were not.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// The route skips the request timeout; the server write timeout would
	// still cut off the result of an import that runs up to UPLOAD_TIMEOUT.
	if d := s.cfg.Upload.Timeout; d > 0 {
		_ = http.NewResponseController(w).SetWriteDeadline(time.Now().Add(d + importWriteSlack))
	}

	maxSize := s.service.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.respondError(w, r, core.FileTooLargeError(maxSize))
			return
		}
		s.respondError(w, r, badRequest("expected a multipart/form-data upload", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.NoFileError())
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		s.respondError(w, r, core.FileTooLargeError(maxSize))
		return
	}

	tags, err := parseTagList(r.FormValue("tags"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	dryRun := false
	if raw := strings.TrimSpace(r.FormValue("dryRun")); raw != "" {
		if dryRun, err = strconv.ParseBool(raw); err != nil {
			s.respondError(w, r, badRequest("dryRun must be true or false", nil))
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.service.Import(withClient(r), core.ImportRequest{
		FileName: header.Filename,
		Data:     data,
		Tags:     tags,
		DryRun:   dryRun,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, r, status, result)
}

// handleExport streams an export file as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req core.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	file, err := s.service.Export(withClient(r), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "error", err)
	}
}

// contentDisposition builds an attachment header. Names outside ASCII get
// an underscored plain filename plus an RFC 6266 filename* parameter.
func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return '_'
		}
		return r
	}, name)
	header := fmt.Sprintf("attachment; filename=%q", fallback)
	if fallback == name {
		return header
	}
	// FormatMediaType switches to the RFC 2231 form for non-ASCII values.
	encoded := mime.FormatMediaType("attachment", map[string]string{"filename": name})
	return header + strings.TrimPrefix(encoded, "attachment")
}
