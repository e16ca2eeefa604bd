package tabular

// stream.go cleans up text input before CSV parsing:
//
//   - SkipBOM drops the UTF-8 byte order mark Windows tools like to prepend
//   - NewUTF8Sanitizer replaces invalid UTF-8 bytes with '?' on the fly
//
// Both work on the stream, so file size does not matter.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader that yields r without a leading UTF-8 BOM.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?'. A multi-byte
// sequence split across two reads is held back until the next read.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := copy(p, s.pending)
	s.pending = s.pending[:0]

	for {
		m, err := s.r.Read(p[n:])
		n += m
		if err != nil {
			if n == 0 {
				return 0, err
			}
			return sanitize(p[:n]), err
		}

		k := incompleteTail(p[:n])
		switch {
		case k == 0:
			return sanitize(p[:n]), nil
		case k < n:
			s.pending = append(s.pending, p[n-k:n]...)
			return sanitize(p[:n-k]), nil
		case n == len(p):
			return sanitize(p[:n]), nil
		}
		// Only a partial sequence so far; read more.
	}
}

// incompleteTail returns how many trailing bytes of data form the start of
// a multi-byte sequence that is not yet complete.
func incompleteTail(data []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		if utf8.RuneStart(data[len(data)-i]) {
			if utf8.FullRune(data[len(data)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

// sanitize rewrites data in place and returns the new length.
func sanitize(data []byte) int {
	if utf8.Valid(data) {
		return len(data)
	}

	w := 0
	for r := 0; r < len(data); {
		c, size := utf8.DecodeRune(data[r:])
		if c == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}
