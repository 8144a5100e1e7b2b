// Package fasta reads sequences from FASTA-formatted files.
package fasta

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoRecord is returned when a file contains no FASTA record with a
// non-empty sequence.
var ErrNoRecord = errors.New("no FASTA record found")

// Record is a single FASTA record. The sequence is normalized to uppercase.
type Record struct {
	ID  string // first whitespace-delimited token of the header, without ">"
	Seq string
}

// Len returns the sequence length.
func (r *Record) Len() int {
	return len(r.Seq)
}

// ReadFirst reads the first record from a FASTA file.
// Supports both plain and gzipped (.fa.gz) files; gzip is detected from
// the magic bytes rather than the file extension.
func ReadFirst(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fasta file: %w", err)
	}
	defer f.Close()

	// Check for gzip magic number (0x1f, 0x8b)
	buf := make([]byte, 2)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read fasta file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("seek fasta file: %w", err)
	}

	var reader io.Reader = f
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	rec, err := ReadFirstFrom(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// ReadFirstFrom reads the first record from FASTA content.
// Header lines start with ">"; subsequent non-header lines are concatenated
// until the next header or end of input. Records before the first header
// are not valid FASTA and yield ErrNoRecord.
func ReadFirstFrom(r io.Reader) (*Record, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long sequence lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var rec *Record
	var seq strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(line, ">") {
			if rec != nil {
				// Next record starts; the first one is complete.
				break
			}
			rec = &Record{ID: parseHeader(line)}
			continue
		}

		if rec == nil {
			// Sequence data before any header
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}

	if rec == nil || seq.Len() == 0 {
		return nil, ErrNoRecord
	}

	rec.Seq = strings.ToUpper(seq.String())
	return rec, nil
}

// parseHeader extracts the record ID from a FASTA header line.
// The ID is the first whitespace-delimited token after ">".
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		return header[:idx]
	}
	return header
}
