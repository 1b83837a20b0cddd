package pricetable

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Row is one data row keyed by its trimmed header name.
type Row map[string]string

// Get returns the trimmed cell under header, or "" when absent.
func (r Row) Get(header string) string {
	return r[header]
}

// Float parses the cell under header. Empty or unparseable cells yield
// fallback. Thousands separators are ignored.
func (r Row) Float(header string, fallback float64) float64 {
	if v, ok := r.Number(header); ok {
		return v
	}
	return fallback
}

// Number parses the cell under header and reports whether it held a
// finite number.
func (r Row) Number(header string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(r[header]), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DetectDelimiter returns the delimiter that splits the data most
// consistently. Comma wins ties.
func DetectDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		score := 0
		for _, rec := range records {
			if len(rec) == len(records[0]) {
				score++
			}
		}
		if weighted := score*10 + len(records[0]); weighted > bestScore {
			best, bestScore = delim, weighted
		}
	}
	return best
}

// ParseCSV reads a header row plus data rows. Quoted fields may contain the
// delimiter and doubled quotes. Blank lines are skipped and every cell is
// trimmed; cells missing from short rows read as "".
func ParseCSV(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsFromRecords(records), nil
}

// rowsFromRecords maps raw records to rows using the first record as header.
// It is shared by the CSV and workbook readers.
func rowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isEmptyRecord(rec) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isEmptyRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
