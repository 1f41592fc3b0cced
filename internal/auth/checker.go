package auth

import (
	"context"
	"errors"

	"booth-monitor/internal/topology"
)

var (
	// ErrAccessDenied indicates the booth belongs to a different client.
	ErrAccessDenied = errors.New("auth: access denied")
	// ErrNotFound indicates the booth is not in the topology.
	ErrNotFound = errors.New("auth: booth not found")
)

// BoothChecker is the capability check for booth access, backed by the
// topology snapshot. Admins pass for any registered booth.
type BoothChecker struct {
	topo *topology.Resolver
}

// NewBoothChecker constructs a checker.
func NewBoothChecker(topo *topology.Resolver) (*BoothChecker, error) {
	if topo == nil {
		return nil, errors.New("auth: nil topology resolver")
	}
	return &BoothChecker{topo: topo}, nil
}

// EnsureBoothAccess verifies the request identity may view the booth.
// A booth missing from the topology is a not-found condition, never
// masked as an empty result.
func (c *BoothChecker) EnsureBoothAccess(ctx context.Context, location, booth string) error {
	if c == nil || c.topo == nil {
		return errors.New("auth: nil checker")
	}
	snapshot := c.topo.Snapshot()
	if !snapshot.HasBooth(location, booth) {
		return ErrNotFound
	}
	if RoleFromContext(ctx) == RoleAdmin {
		return nil
	}
	if !snapshot.AllowedBooth(ClientNameFromContext(ctx), location, booth) {
		return ErrAccessDenied
	}
	return nil
}
