package alerts

import (
	"fmt"

	readings "booth-monitor/internal/readings/domain"
)

// Kind identifies the alert rule that fired.
type Kind string

const (
	KindHighCO2  Kind = "HighCO2"
	KindHighTemp Kind = "HighTemp"
)

// Fixed alert thresholds. The display threshold bands are a separate,
// data-driven surface and are deliberately not consulted here.
const (
	co2ThresholdPPM = 1000.0
	tempThresholdC  = 25.0
)

// Event is one alert raised for a booth's latest reading.
type Event struct {
	Location string  `json:"location"`
	Booth    string  `json:"booth"`
	Kind     Kind    `json:"kind"`
	Value    float64 `json:"value"`
	Message  string  `json:"message"`
}

// Evaluate applies the fixed threshold rules to a booth's latest reading.
// Both rules are evaluated independently and may fire together. Missing
// values never fire, and a nil reading yields no events.
func Evaluate(location, booth string, latest *readings.Reading) []Event {
	if latest == nil {
		return nil
	}

	var events []Event
	if latest.CO2PPM != nil && *latest.CO2PPM > co2ThresholdPPM {
		ppm := float64(int(*latest.CO2PPM))
		events = append(events, Event{
			Location: location,
			Booth:    booth,
			Kind:     KindHighCO2,
			Value:    ppm,
			Message:  fmt.Sprintf("High CO2 in %s, %s: %d ppm", location, booth, int(ppm)),
		})
	}
	if latest.TempC != nil && *latest.TempC > tempThresholdC {
		events = append(events, Event{
			Location: location,
			Booth:    booth,
			Kind:     KindHighTemp,
			Value:    *latest.TempC,
			Message:  fmt.Sprintf("High Temp in %s, %s: %g C", location, booth, *latest.TempC),
		})
	}
	return events
}
