package readings

import "time"

// Required columns of a normalized record.
const (
	ColumnTime        = "time"
	ColumnTempC       = "temp_c"
	ColumnHumidityPct = "humidity_pct"
	ColumnCO2PPM      = "co2_ppm"
	ColumnPIRState    = "pir_state"
)

// RequiredColumns lists every column a normalized reading carries.
var RequiredColumns = []string{ColumnTime, ColumnTempC, ColumnHumidityPct, ColumnCO2PPM, ColumnPIRState}

// RawRecord is one row from a record source before normalization.
// Keys may be an arbitrary subset of the required columns.
type RawRecord map[string]string

// Reading is one normalized sensor sample. A nil field means the value
// was absent from the source or failed coercion.
type Reading struct {
	Time        *time.Time `json:"time"`
	TempC       *float64   `json:"temp_c"`
	HumidityPct *float64   `json:"humidity_pct"`
	CO2PPM      *float64   `json:"co2_ppm"`
	PIRState    *string    `json:"pir_state"`
}

// Latest returns the most recent reading with a present timestamp.
// Readings without a timestamp are never selected; nil when no
// timestamped reading exists.
func Latest(sequence []Reading) *Reading {
	for i := len(sequence) - 1; i >= 0; i-- {
		if sequence[i].Time != nil {
			return &sequence[i]
		}
	}
	return nil
}

// Tail returns the trailing n readings of the sequence.
func Tail(sequence []Reading, n int) []Reading {
	if n <= 0 || len(sequence) == 0 {
		return nil
	}
	if len(sequence) <= n {
		return sequence
	}
	return sequence[len(sequence)-n:]
}
