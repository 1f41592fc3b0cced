package liveness

import (
	"time"

	readings "booth-monitor/internal/readings/domain"
)

const (
	StateOnline  = "Online"
	StateOffline = "Offline"

	// LastSeenNever marks a booth that has no timestamped reading at all.
	LastSeenNever = "Never"
)

const (
	offlineAfter   = time.Hour
	lastSeenLayout = "2006-01-02 15:04"
)

// Status classifies a booth's recency.
type Status struct {
	Location string `json:"location"`
	Booth    string `json:"booth"`
	LastSeen string `json:"last_seen"`
	State    string `json:"state"`
}

// Evaluate classifies a booth from its latest reading. A booth with no
// reading, or whose latest reading carries no timestamp, is Never/Offline.
// A reading exactly one hour old is still Online; strictly older is Offline.
func Evaluate(location, booth string, latest *readings.Reading, now time.Time) Status {
	status := Status{Location: location, Booth: booth, LastSeen: LastSeenNever, State: StateOffline}
	if latest == nil || latest.Time == nil {
		return status
	}

	status.LastSeen = latest.Time.Format(lastSeenLayout)
	if now.Sub(*latest.Time) > offlineAfter {
		status.State = StateOffline
	} else {
		status.State = StateOnline
	}
	return status
}
