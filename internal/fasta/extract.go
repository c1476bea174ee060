// Package fasta pulls sequence data out of FASTA-style uploads.
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"dnamatch/internal/domain"
)

// HeaderMarker starts a header line.
const HeaderMarker = '>'

// Extract concatenates the data lines of r, skipping header lines, and stops
// after limit symbols. Each line is trimmed of surrounding whitespace first.
// A limit of zero or less means domain.MaxSequenceLength.
func Extract(r io.Reader, limit int) (string, error) {
	if limit <= 0 {
		limit = domain.MaxSequenceLength
	}
	br := bufio.NewReader(r)
	var out bytes.Buffer
	out.Grow(min(limit, 4096))
	for out.Len() < limit {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSpace(line)
			if len(line) > 0 && line[0] != HeaderMarker {
				remaining := limit - out.Len()
				if len(line) > remaining {
					line = line[:remaining]
				}
				out.Write(line)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read sequence: %w", err)
		}
	}
	return out.String(), nil
}

// ExtractFile opens path and extracts its sequence.
func ExtractFile(path string, limit int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open sequence file: %w", err)
	}
	defer f.Close()
	return Extract(f, limit)
}
