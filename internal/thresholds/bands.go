package thresholds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Band is a display range for one metric.
type Band struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Bands maps metric name to its display band. This surface is data for
// the presentation layer; the alert evaluator keeps its own fixed
// thresholds and does not read it.
type Bands map[string]Band

// Defaults returns the built-in display bands.
func Defaults() Bands {
	return Bands{
		"temp_c":       {Low: 18, High: 24},
		"humidity_pct": {Low: 40, High: 60},
		"co2_ppm":      {Low: 0, High: 1000},
		"voc":          {Low: 0, High: 100},
	}
}

// Load reads bands from a yaml file, overlaying the defaults so partial
// files only override the metrics they name. An empty path returns the
// defaults.
func Load(path string) (Bands, error) {
	bands := Defaults()
	if path == "" {
		return bands, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("thresholds: read %s: %w", path, err)
	}
	var overrides Bands
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("thresholds: parse %s: %w", path, err)
	}
	for metric, band := range overrides {
		bands[metric] = band
	}
	return bands, nil
}
