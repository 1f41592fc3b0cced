package dashboard

import (
	readings "booth-monitor/internal/readings/domain"
)

// kpiWindow is how many trailing readings feed the spotlight series.
const kpiWindow = 24

// KPISeries is the spotlight booth's recent trend, shaped for charting
// by the presentation layer. Value slices align with Labels; nil entries
// carry through as nulls.
type KPISeries struct {
	Labels          []string       `json:"temp_labels"`
	TempValues      []*float64     `json:"temp_values"`
	HumidityValues  []*float64     `json:"humidity_values"`
	OccupancyCounts map[string]int `json:"occupancy_counts"`
}

func buildKPISeries(sequence []readings.Reading) *KPISeries {
	recent := readings.Tail(sequence, kpiWindow)
	if len(recent) == 0 {
		return nil
	}

	series := &KPISeries{
		Labels:          make([]string, 0, len(recent)),
		TempValues:      make([]*float64, 0, len(recent)),
		HumidityValues:  make([]*float64, 0, len(recent)),
		OccupancyCounts: map[string]int{},
	}
	for _, reading := range recent {
		label := ""
		if reading.Time != nil {
			label = reading.Time.Format("15:04")
		}
		series.Labels = append(series.Labels, label)
		series.TempValues = append(series.TempValues, reading.TempC)
		series.HumidityValues = append(series.HumidityValues, reading.HumidityPct)
		if reading.PIRState != nil {
			series.OccupancyCounts[*reading.PIRState]++
		}
	}
	return series
}
