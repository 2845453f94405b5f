package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	pairFileColumns   = 2
	pairFilePerm      = 0o644
	pairFileDirPerm   = 0o755
	headerQuestionCol = "question"
	headerAnswerCol   = "answer"
)

var errBadHeader = errors.New(`header must be "question,answer"`)

// WritePairsFile writes pairs as CSV with a question,answer header.
// The file is written to a temp path and renamed into place.
func WritePairsFile(path string, pairs []Pair) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, pairFileDirPerm); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, pairFilePerm)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if err := EncodePairs(f, pairs); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// EncodePairs writes the CSV form of pairs to w.
func EncodePairs(w io.Writer, pairs []Pair) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{headerQuestionCol, headerAnswerCol}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range pairs {
		if err := cw.Write([]string{p.Question, p.Answer}); err != nil {
			return fmt.Errorf("writing pair %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing pairs: %w", err)
	}
	return nil
}

// ReadPairsFile parses a CSV file written by WritePairsFile.
func ReadPairsFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	return DecodePairs(path, f)
}

// DecodePairs parses CSV pairs from r. Any malformed row fails the whole read
// with a *ParseError naming the row; rows are never skipped.
func DecodePairs(name string, r io.Reader) ([]Pair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // checked per row for a precise error

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Path: name, Row: 1, Err: errors.New("missing header")}
	}
	if err != nil {
		return nil, &ParseError{Path: name, Row: 1, Err: err}
	}
	if len(header) != pairFileColumns || header[0] != headerQuestionCol || header[1] != headerAnswerCol {
		return nil, &ParseError{Path: name, Row: 1, Err: errBadHeader}
	}

	var pairs []Pair
	for row := 2; ; row++ {
		record, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, &ParseError{Path: name, Row: row, Err: readErr}
		}
		if len(record) != pairFileColumns {
			return nil, &ParseError{
				Path: name,
				Row:  row,
				Err:  fmt.Errorf("expected %d fields, got %d", pairFileColumns, len(record)),
			}
		}
		if strings.TrimSpace(record[0]) == "" {
			return nil, &ParseError{Path: name, Row: row, Err: errors.New("empty question")}
		}
		pairs = append(pairs, Pair{Question: record[0], Answer: record[1]})
	}

	return pairs, nil
}
