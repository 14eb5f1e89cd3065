package core

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
)

func TestTextReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,city")...),
			expected: "name,city",
		},
		{
			name:     "file without BOM",
			input:    []byte("name,city"),
			expected: "name,city",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM is kept as replaced bytes",
			input:    []byte{0xEF, 0xBB, 'a'},
			expected: "??a",
		},
		{
			name:     "multibyte preserved",
			input:    []byte("Café;Zoë"),
			expected: "Café;Zoë",
		},
		{
			name:     "latin-1 byte replaced",
			input:    []byte{'C', 'a', 'f', 0xE9, ';', 'x'},
			expected: "Caf?;x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(NewTextReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTextReader_SmallReads(t *testing.T) {
	input := []byte("Zoë,Überstraße")
	r := iotest.OneByteReader(NewTextReader(iotest.HalfReader(bytes.NewReader(input))))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(input) {
		t.Errorf("got %q, want %q", got, input)
	}
}
