package sped

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// maxLineBytes caps a single SPED line; item descriptions can get long but
// nothing legitimate approaches a megabyte.
const maxLineBytes = 1 << 20

// DecodeLines reads a SPED file into its lines. The official exports ship
// ISO-8859-1 encoded; content that already scans as valid UTF-8 is passed
// through untouched so re-encoded files keep their accents.
func DecodeLines(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err == nil {
			raw = decoded
		}
	}
	return splitLines(raw)
}

func splitLines(data []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
