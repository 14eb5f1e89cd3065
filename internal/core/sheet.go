package core

// sheet.go reads an uploaded file into a header and data rows.
//
// The format is sniffed from the leading bytes, not the file name:
//
//	PK\x03\x04        XLSX workbook, first sheet is used
//	D0 CF 11 E0       legacy .xls, rejected
//	anything else     delimited text (comma, semicolon or tab)
//
// The first non-blank row is the header. Line numbers reported for data
// rows are the 1-indexed lines of the original sheet.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Sheet is a parsed upload.
type Sheet struct {
	Headers []string
	Rows    []SheetRow
}

// SheetRow is a non-blank data row with its sheet line number.
type SheetRow struct {
	Line  int
	Cells Row
}

// record is one raw row and the 1-indexed line it starts on.
type record struct {
	line   int
	fields []string
}

// ReadSheet sniffs and parses an upload. Every failure is an *UploadError.
func ReadSheet(data []byte) (*Sheet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &UploadError{Reason: reasonEmptyFile}
	}

	var (
		records []record
		err     error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		records, err = readWorkbook(data)
	case bytes.HasPrefix(data, oleMagic):
		return nil, &UploadError{Reason: reasonLegacyXLS}
	case looksBinary(data):
		return nil, &UploadError{Reason: reasonUnknownType}
	default:
		records, err = readDelimited(data)
	}
	if err != nil {
		return nil, err
	}
	return buildSheet(records)
}

func readWorkbook(data []byte) ([]record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, uploadErrorf(reasonInvalidXLSX, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &UploadError{Reason: reasonInvalidXLSX + ": workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, uploadErrorf(reasonInvalidXLSX, err)
	}
	records := make([]record, len(rows))
	for i, fields := range rows {
		records[i] = record{line: i + 1, fields: fields}
	}
	return records, nil
}

// readDelimited records the file line each record starts on. The csv
// reader skips blank lines and joins quoted multi-line fields.
func readDelimited(data []byte) ([]record, error) {
	r := csv.NewReader(NewTextReader(bytes.NewReader(data)))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records []record
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, uploadErrorf(reasonInvalidCSV, err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

// sniffDelimiter picks the separator that occurs most often, outside
// quotes, on the first line.
func sniffDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t'}
	counts := make(map[rune]int, len(candidates))
	inQuotes := false
	for _, c := range string(bytes.TrimPrefix(data, utf8BOM)) {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if c == '\n' || c == '\r' {
			break
		}
		counts[c]++
	}

	best := ','
	for _, c := range candidates {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// looksBinary reports NUL bytes near the start, which text never has.
func looksBinary(data []byte) bool {
	head := data[:min(len(data), 512)]
	return bytes.IndexByte(head, 0) >= 0
}

func buildSheet(records []record) (*Sheet, error) {
	headerIdx := -1
	for i, rec := range records {
		if !isEmptyRow(rec.fields) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &UploadError{Reason: reasonNoHeader}
	}

	headers := make([]string, len(records[headerIdx].fields))
	seen := make(map[string]bool, len(headers))
	named := 0
	for i, h := range records[headerIdx].fields {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers[i] = h
		named++
	}
	if named == 0 {
		return nil, &UploadError{Reason: reasonNoHeader}
	}

	sheet := &Sheet{Headers: compactHeaders(headers)}
	for i := headerIdx + 1; i < len(records); i++ {
		rec := records[i]
		if isEmptyRow(rec.fields) {
			continue
		}
		cells := make(Row, len(headers))
		for col, value := range rec.fields {
			if col >= len(headers) || headers[col] == "" {
				continue
			}
			if value = strings.TrimSpace(value); value != "" {
				cells[headers[col]] = value
			}
		}
		sheet.Rows = append(sheet.Rows, SheetRow{Line: rec.line, Cells: cells})
	}
	return sheet, nil
}

func compactHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
