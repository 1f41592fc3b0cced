package readings

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted from record sources, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize converts raw records into the fixed reading schema and sorts
// them ascending by time. Every output reading carries all five columns;
// values that are absent or fail coercion become nil rather than errors.
// Records without a usable timestamp sort after all timed records and keep
// their relative order. Nil or empty input yields nil.
func Normalize(raw []RawRecord) []Reading {
	if len(raw) == 0 {
		return nil
	}

	sequence := make([]Reading, 0, len(raw))
	for _, record := range raw {
		sequence = append(sequence, Reading{
			Time:        coerceTime(record[ColumnTime]),
			TempC:       coerceFloat(record[ColumnTempC]),
			HumidityPct: coerceFloat(record[ColumnHumidityPct]),
			CO2PPM:      coerceFloat(record[ColumnCO2PPM]),
			PIRState:    coerceState(record[ColumnPIRState]),
		})
	}

	sort.SliceStable(sequence, func(i, j int) bool {
		left, right := sequence[i].Time, sequence[j].Time
		if left == nil {
			return false
		}
		if right == nil {
			return true
		}
		return left.Before(*right)
	})
	return sequence
}

func coerceFloat(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func coerceTime(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed
		}
	}
	return nil
}

func coerceState(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
