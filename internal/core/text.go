package core

// text.go cleans delimited text before it reaches the CSV parser.
//
// Spreadsheet programs on Windows prepend a UTF-8 byte order mark and
// older exports mix in Latin-1 bytes. Both are handled while streaming:
// the BOM is dropped and every invalid byte becomes '?'.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewTextReader wraps r so that it yields BOM-free, valid UTF-8.
func NewTextReader(r io.Reader) io.Reader {
	return &utf8Sanitizer{r: skipBOM(r)}
}

func skipBOM(r io.Reader) *bufio.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?' on the fly.
// A single-byte replacement keeps output no longer than input.
type utf8Sanitizer struct {
	r       *bufio.Reader
	enc     [utf8.UTFMax]byte
	held    [utf8.UTFMax]byte
	pending []byte // tail of a rune that did not fit in the caller's buffer
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			c := copy(p[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		r, size, err := s.r.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}

		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
		} else {
			w := utf8.EncodeRune(s.enc[:], r)
			c := copy(p[n:], s.enc[:w])
			n += c
			if c < w {
				s.pending = append(s.held[:0], s.enc[c:w]...)
			}
		}

		// Do not block on the underlying reader once we have output.
		if s.r.Buffered() == 0 && len(s.pending) == 0 {
			break
		}
	}
	return n, nil
}
