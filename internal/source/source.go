package source

import (
	"context"
	"strings"

	readings "booth-monitor/internal/readings/domain"
)

// Source fetches the raw records for one booth. Absence (nil, nil) is the
// expected steady state for an unreachable or missing resource; errors are
// reserved for caller misuse, never for source availability.
type Source interface {
	Fetch(ctx context.Context, location, booth string) ([]readings.RawRecord, error)
}

// ResourceKey builds the `{location}_{booth}` identifier used to address
// a booth's local resource, with whitespace stripped.
func ResourceKey(location, booth string) string {
	return stripSpaces(location) + "_" + stripSpaces(booth)
}

func stripSpaces(value string) string {
	return strings.ReplaceAll(value, " ", "")
}
