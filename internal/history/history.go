package history

import (
	"time"

	readings "booth-monitor/internal/readings/domain"
)

// priorWindow separates "prior day" samples from recent ones.
const priorWindow = 24 * time.Hour

// Delta compares a booth's latest value against its prior-day mean.
type Delta struct {
	Current          float64 `json:"current_value"`
	FromPriorDayMean float64 `json:"delta_from_prior_day_mean"`
}

// Evaluate computes per-metric deltas between the latest reading and the
// mean of readings older than 24 hours. The result is keyed by column name
// (temp_c, humidity_pct). An empty map means insufficient history; a metric
// is omitted when the latest value is missing or no prior sample carries it.
func Evaluate(sequence []readings.Reading, now time.Time) map[string]Delta {
	result := map[string]Delta{}
	latest := readings.Latest(sequence)
	if latest == nil {
		return result
	}

	cutoff := now.Add(-priorWindow)
	var prior []readings.Reading
	for _, reading := range sequence {
		if reading.Time != nil && reading.Time.Before(cutoff) {
			prior = append(prior, reading)
		}
	}
	if len(prior) == 0 {
		return result
	}

	if latest.TempC != nil {
		if mean, ok := meanOf(prior, func(r readings.Reading) *float64 { return r.TempC }); ok {
			result[readings.ColumnTempC] = Delta{Current: *latest.TempC, FromPriorDayMean: *latest.TempC - mean}
		}
	}
	if latest.HumidityPct != nil {
		if mean, ok := meanOf(prior, func(r readings.Reading) *float64 { return r.HumidityPct }); ok {
			result[readings.ColumnHumidityPct] = Delta{Current: *latest.HumidityPct, FromPriorDayMean: *latest.HumidityPct - mean}
		}
	}
	return result
}

func meanOf(prior []readings.Reading, value func(readings.Reading) *float64) (float64, bool) {
	var sum float64
	var count int
	for _, reading := range prior {
		if v := value(reading); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
