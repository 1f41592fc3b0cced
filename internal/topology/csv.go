package topology

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileLoader loads assignments from a CSV file with the columns
// client_name, location, booth.
type FileLoader struct {
	path string
}

// NewFileLoader constructs a loader for the given file.
func NewFileLoader(path string) (*FileLoader, error) {
	if path == "" {
		return nil, errors.New("topology: empty file path")
	}
	return &FileLoader{path: path}, nil
}

// Load reads the whole assignment table.
func (l *FileLoader) Load(_ context.Context) ([]Assignment, error) {
	if l == nil {
		return nil, errors.New("topology: nil loader")
	}
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("topology: open %s: %w", l.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("topology: read %s: %w", l.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	clientIdx, ok := columns["client_name"]
	if !ok {
		return nil, fmt.Errorf("topology: %s missing client_name column", l.path)
	}
	locationIdx, ok := columns["location"]
	if !ok {
		return nil, fmt.Errorf("topology: %s missing location column", l.path)
	}
	boothIdx, ok := columns["booth"]
	if !ok {
		return nil, fmt.Errorf("topology: %s missing booth column", l.path)
	}

	var assignments []Assignment
	for _, row := range rows[1:] {
		assignment := Assignment{
			ClientName: cell(row, clientIdx),
			Location:   cell(row, locationIdx),
			Booth:      cell(row, boothIdx),
		}
		if assignment.Location == "" || assignment.Booth == "" {
			continue
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
