package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook returns an in-memory .xlsx whose first sheet holds rows.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestReadSheet_Workbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Naam (zaak)", "Adres", "Postcode", "Plaats", "Actief"},
		{"Bakker", "Dorpsstraat 1", "1234 AB", "Utrecht", "ja"},
		{},
		{"Slager", "Markt 2", 3511, "Utrecht", "nee"},
	})

	sheet, err := ReadSheet(data)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(sheet.Headers) != 5 {
		t.Errorf("Headers = %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2 (blank row skipped)", len(sheet.Rows))
	}
	if sheet.Rows[0].Line != 2 || sheet.Rows[1].Line != 4 {
		t.Errorf("lines = %d, %d; want 2, 4", sheet.Rows[0].Line, sheet.Rows[1].Line)
	}
	if got := sheet.Rows[1].Cells["Postcode"]; got != "3511" {
		t.Errorf("numeric cell = %v, want 3511", got)
	}
}

func TestReadSheet_CSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rows  int
		city  string
	}{
		{"comma", "name,street,zip,city\nBakker,Dorpsstraat 1,1234 AB,Utrecht\n", 1, "Utrecht"},
		{"semicolon", "name;adres;postcode;plaats\nBakker;Dorpsstraat 1;1234 AB;Den Haag\n", 1, ""},
		{"bom and crlf", "\ufeffname,city\r\nBakker,Utrecht\r\n\r\n", 1, "Utrecht"},
		{"quoted delimiter", "name,city\n\"Bakker, Zn\",Utrecht\n", 1, "Utrecht"},
		{"header only", "name,city\n", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := ReadSheet([]byte(tt.input))
			if err != nil {
				t.Fatalf("ReadSheet: %v", err)
			}
			if len(sheet.Rows) != tt.rows {
				t.Fatalf("Rows = %d, want %d", len(sheet.Rows), tt.rows)
			}
			if tt.city != "" && sheet.Rows[0].Cells["city"] != tt.city {
				t.Errorf("city = %v, want %s", sheet.Rows[0].Cells["city"], tt.city)
			}
			if tt.rows > 0 && sheet.Rows[0].Line != 2 {
				t.Errorf("Line = %d, want 2", sheet.Rows[0].Line)
			}
		})
	}
}

func TestReadSheet_CSVLineNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"blank lines between rows", "Name,Address,Zipcode,City\n\nA,Street 1,1234,Town\n\nB,,1234,Town\n", []int{3, 5}},
		{"blank lines before header", "\n\nname,city\nA,Town\n", []int{4}},
		{"multi-line quoted field", "name,comment,city\nA,\"two\nlines\",Town\nB,,Town\n", []int{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := ReadSheet([]byte(tt.input))
			if err != nil {
				t.Fatalf("ReadSheet: %v", err)
			}
			if len(sheet.Rows) != len(tt.want) {
				t.Fatalf("Rows = %d, want %d", len(sheet.Rows), len(tt.want))
			}
			for i, want := range tt.want {
				if got := sheet.Rows[i].Line; got != want {
					t.Errorf("row %d Line = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestPlanImport_CSVRowErrorsUseFileLines(t *testing.T) {
	sheet, err := ReadSheet([]byte("Name,Address,Zipcode,City\n\nA,Street 1,1234,Town\n\nB,,1234,Town\n"))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	plan := PlanImport(sheet, nil)
	if len(plan.Errors) != 1 || plan.Errors[0].Row != 5 {
		t.Errorf("errors = %+v, want one error on row 5", plan.Errors)
	}
}

func TestReadSheet_SemicolonColumns(t *testing.T) {
	sheet, err := ReadSheet([]byte("name;plaats\nBakker;Den Haag\n"))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if got := sheet.Rows[0].Cells["plaats"]; got != "Den Haag" {
		t.Errorf("plaats = %v", got)
	}
}

func TestReadSheet_Failures(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		reason string
	}{
		{"empty", nil, "empty file"},
		{"whitespace only", []byte(" \n\n "), "empty file"},
		{"legacy xls", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, "legacy .xls"},
		{"broken zip", []byte("PK\x03\x04garbage"), "invalid spreadsheet"},
		{"binary", []byte{0x89, 'P', 'N', 'G', 0x00, 0x00}, "unrecognized file format"},
		{"blank rows only", []byte(",,\n , \n,,\n"), "no header row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSheet(tt.input)
			var ue *UploadError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v, want *UploadError", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("err = %q, want it to mention %q", err, tt.reason)
			}
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := map[string]rune{
		"a,b,c\n":          ',',
		"a;b;c\n":          ';',
		"a\tb\tc\n":        '\t',
		"\"x;y\",b\n":      ',',
		"single\n":         ',',
		"a;b\nc,d,e,f,g\n": ';',
	}
	for in, want := range tests {
		if got := sniffDelimiter([]byte(in)); got != want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", in, got, want)
		}
	}
}
