package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no business has the requested id.
var ErrNotFound = errors.New("business not found")

// ErrStorageUnavailable is returned by every operation when a database was
// configured but could not be reached at startup.
var ErrStorageUnavailable = errors.New("storage unavailable: database connection required but unavailable")

// UploadError aborts an entire import before any row is processed:
// missing, empty, oversized or unreadable files.
type UploadError struct {
	Reason string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func uploadErrorf(reason string, err error) error {
	return &UploadError{Reason: reason, Err: err}
}

// Upload failure reasons. The leading words are matched by MapError.
const (
	reasonNoFile      = "no file provided"
	reasonEmptyFile   = "empty file"
	reasonTooLarge    = "file too large"
	reasonInvalidCSV  = "invalid csv"
	reasonInvalidXLSX = "invalid spreadsheet"
	reasonLegacyXLS   = "legacy .xls workbooks are not supported"
	reasonUnknownType = "unrecognized file format"
	reasonNoHeader    = "no header row"
)

// NoFileError reports a request that carried no upload.
func NoFileError() error {
	return &UploadError{Reason: reasonNoFile}
}

// FileTooLargeError reports an upload over the configured limit.
func FileTooLargeError(limit int64) error {
	return &UploadError{Reason: fmt.Sprintf("%s: limit is %d bytes", reasonTooLarge, limit)}
}
