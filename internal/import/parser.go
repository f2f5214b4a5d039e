package importutil

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"
	"strings"
)

// ParsedData represents the raw data extracted from a file.
type ParsedData struct {
	Headers []string   // Column headers, lower-cased
	Rows    [][]string // Data rows (all values as strings)
	Format  string     // File format (csv or json)
}

// ParseFile parses a CSV or JSON file and extracts headers and rows
// without making assumptions about structure or field mapping.
func ParseFile(filename string, reader io.Reader) (*ParsedData, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return parseCSV(reader)
	case ".json":
		return parseJSON(reader)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", path.Ext(filename))
	}
}

func parseCSV(reader io.Reader) (*ParsedData, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("CSV file is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, errors.New("CSV file has no data rows")
	}

	return &ParsedData{
		Headers: headers,
		Rows:    rows,
		Format:  "csv",
	}, nil
}

// parseJSON expects an array of objects. Headers are the union of every
// object's keys, each object contributing its keys in sorted order. Numbers keep their literal text.
func parseJSON(reader io.Reader) (*ParsedData, error) {
	var data []map[string]any

	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	if len(data) == 0 {
		return nil, errors.New("JSON file contains no records")
	}

	var headers []string
	seen := make(map[string]bool)
	for _, record := range data {
		for _, key := range slices.Sorted(maps.Keys(record)) {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}

	rows := make([][]string, 0, len(data))
	for _, record := range data {
		row := make([]string, len(headers))
		for i, header := range headers {
			if val, ok := record[header]; ok && val != nil {
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		rows = append(rows, row)
	}

	for i, h := range headers {
		headers[i] = strings.ToLower(h)
	}

	return &ParsedData{
		Headers: headers,
		Rows:    rows,
		Format:  "json",
	}, nil
}

// GetTotalRows returns the total number of data rows.
func (p *ParsedData) GetTotalRows() int {
	return len(p.Rows)
}
