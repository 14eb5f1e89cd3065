package core

// exporter.go serializes businesses as a workbook, CSV or Word document.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"
)

// ExportFormat is a canonical output format.
type ExportFormat string

const (
	FormatSpreadsheet ExportFormat = "spreadsheet"
	FormatCSV         ExportFormat = "csv"
	FormatDocument    ExportFormat = "document"
)

// exportSheetName is the single worksheet of a spreadsheet export.
const exportSheetName = "Businesses"

var formatAliases = map[string]ExportFormat{
	"":            FormatSpreadsheet,
	"spreadsheet": FormatSpreadsheet,
	"xlsx":        FormatSpreadsheet,
	"excel":       FormatSpreadsheet,
	"csv":         FormatCSV,
	"mailing":     FormatCSV,
	"mailinglist": FormatCSV,
	"document":    FormatDocument,
	"word":        FormatDocument,
	"docx":        FormatDocument,
}

// ParseExportFormat resolves a format name or alias, case-insensitively.
// An empty name selects the spreadsheet format.
func ParseExportFormat(s string) (ExportFormat, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", NewValidationError("format", "unsupported export format %q", s)
	}
	return f, nil
}

// Extension returns the file extension including the dot.
func (f ExportFormat) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatDocument:
		return ".docx"
	default:
		return ".xlsx"
	}
}

// ContentType returns the MIME type of the encoded file.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatDocument:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// ExportRequest selects records and output format.
type ExportRequest struct {
	Format     string   `json:"format"`
	IDs        []string `json:"ids,omitempty"`
	CustomName string   `json:"customName,omitempty"`
	PageBreaks bool     `json:"pageBreaks,omitempty"`
}

// ExportFile is an encoded export ready to be downloaded.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// exportRow is the flat projection written to every format.
type exportRow struct {
	Name       string `csv:"Name"`
	StreetName string `csv:"Street Name"`
	Zipcode    string `csv:"Zipcode"`
	City       string `csv:"City"`
	Email      string `csv:"Email"`
	Phone      string `csv:"Phone"`
	Tags       string `csv:"Tags"`
	Comment    string `csv:"Comment"`
	Active     string `csv:"Active"`
}

var exportHeaders = []any{"Name", "Street Name", "Zipcode", "City", "Email", "Phone", "Tags", "Comment", "Active"}

func projectRow(b Business) exportRow {
	active := "No"
	if b.IsActive {
		active = "Yes"
	}
	return exportRow{
		Name:       b.Name,
		StreetName: b.StreetName,
		Zipcode:    b.Zipcode,
		City:       b.City,
		Email:      b.Email,
		Phone:      b.Phone,
		Tags:       strings.Join(b.Tags, ", "),
		Comment:    b.Comment,
		Active:     active,
	}
}

func (r exportRow) cells() []any {
	return []any{r.Name, r.StreetName, r.Zipcode, r.City, r.Email, r.Phone, r.Tags, r.Comment, r.Active}
}

// SelectBusinesses keeps the records whose id is listed, in store order.
// An empty id list keeps everything.
func SelectBusinesses(all []Business, ids []string) []Business {
	if len(ids) == 0 {
		return all
	}
	out := make([]Business, 0, len(ids))
	for _, b := range all {
		if slices.Contains(ids, b.ID) {
			out = append(out, b)
		}
	}
	return out
}

// EncodeExport writes businesses in the given format.
func EncodeExport(format ExportFormat, businesses []Business, pageBreaks bool) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(businesses)
	case FormatDocument:
		return encodeDocument(businesses, pageBreaks)
	case FormatSpreadsheet:
		return encodeSpreadsheet(businesses)
	default:
		return nil, NewValidationError("format", "unsupported export format %q", string(format))
	}
}

func encodeSpreadsheet(businesses []Business) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := slices.Clone(exportHeaders)
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(exportSheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetColWidth(exportSheetName, "A", "I", 22); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	for i, b := range businesses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := projectRow(b).cells()
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeCSV(businesses []Business) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)

	if err := enc.EncodeHeader(exportRow{}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range businesses {
		if err := enc.Encode(projectRow(b)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename builds a safe download name: custom (or fallback) with
// unsafe characters replaced and the format extension appended once.
func ExportFilename(custom, fallback string, format ExportFormat) string {
	name := strings.TrimSpace(custom)
	if name == "" {
		name = fallback
	}
	ext := format.Extension()
	if strings.EqualFold(filepath.Ext(name), ext) {
		name = name[:len(name)-len(ext)]
	}

	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, " .")
	if name == "" {
		name = "businesses"
	}
	return name + ext
}
