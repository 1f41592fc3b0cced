package source

import (
	"context"
	"encoding/csv"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	readings "booth-monitor/internal/readings/domain"
)

// CSVDir serves booth records from per-booth CSV files in one directory,
// addressed as `{location}_{booth}.csv` with whitespace stripped.
type CSVDir struct {
	dir    string
	logger *log.Logger
}

// NewCSVDir constructs a directory-backed source.
func NewCSVDir(dir string, logger *log.Logger) (*CSVDir, error) {
	if dir == "" {
		return nil, errors.New("source: empty data dir")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CSVDir{dir: dir, logger: logger}, nil
}

// Fetch reads the booth's CSV file. A missing or unparsable file degrades
// to absence; a parse failure is logged and must not surface to the caller.
func (s *CSVDir) Fetch(_ context.Context, location, booth string) ([]readings.RawRecord, error) {
	if s == nil {
		return nil, errors.New("source: nil csv source")
	}

	path := filepath.Join(s.dir, ResourceKey(location, booth)+".csv")
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("source: open %s: %v", path, err)
		}
		return nil, nil
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		s.logger.Printf("source: parse %s: %v", path, err)
		return nil, nil
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]readings.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := readings.RawRecord{}
		for i, value := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			record[header[i]] = value
		}
		records = append(records, record)
	}
	return records, nil
}
