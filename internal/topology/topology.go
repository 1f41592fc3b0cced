package topology

import (
	"context"
	"errors"
	"sync"
)

// Assignment is one row of the topology table: a booth registered under a
// location and assigned to a client.
type Assignment struct {
	ClientName string
	Location   string
	Booth      string
}

// Loader produces the full assignment table from its backing resource.
type Loader interface {
	Load(ctx context.Context) ([]Assignment, error)
}

// Snapshot is an immutable view of the topology. It only enumerates;
// authorization decisions belong to the caller.
type Snapshot struct {
	assignments []Assignment
}

// NewSnapshot builds a snapshot from assignments, preserving row order.
func NewSnapshot(assignments []Assignment) *Snapshot {
	copied := make([]Assignment, len(assignments))
	copy(copied, assignments)
	return &Snapshot{assignments: copied}
}

// Locations returns distinct locations in first-seen order. With a
// non-empty tenant, only locations with at least one booth assigned to
// that tenant are returned.
func (s *Snapshot) Locations(tenant string) []string {
	if s == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var locations []string
	for _, assignment := range s.assignments {
		if tenant != "" && assignment.ClientName != tenant {
			continue
		}
		if _, ok := seen[assignment.Location]; ok {
			continue
		}
		seen[assignment.Location] = struct{}{}
		locations = append(locations, assignment.Location)
	}
	return locations
}

// Booths returns distinct booth names under a location in first-seen
// order, independent of tenant.
func (s *Snapshot) Booths(location string) []string {
	if s == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var booths []string
	for _, assignment := range s.assignments {
		if assignment.Location != location {
			continue
		}
		if _, ok := seen[assignment.Booth]; ok {
			continue
		}
		seen[assignment.Booth] = struct{}{}
		booths = append(booths, assignment.Booth)
	}
	return booths
}

// HasBooth reports whether the booth is registered under the location.
func (s *Snapshot) HasBooth(location, booth string) bool {
	if s == nil {
		return false
	}
	for _, assignment := range s.assignments {
		if assignment.Location == location && assignment.Booth == booth {
			return true
		}
	}
	return false
}

// AllowedBooth reports whether the tenant has the booth assigned.
// An empty tenant means no tenant scoping and allows any known booth.
func (s *Snapshot) AllowedBooth(tenant, location, booth string) bool {
	if s == nil {
		return false
	}
	if tenant == "" {
		return s.HasBooth(location, booth)
	}
	for _, assignment := range s.assignments {
		if assignment.ClientName == tenant && assignment.Location == location && assignment.Booth == booth {
			return true
		}
	}
	return false
}

// Resolver holds the current topology snapshot and supports explicit
// reloads for table rotation. Components receive the resolver at
// construction instead of reading process-global state.
type Resolver struct {
	loader Loader

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewResolver constructs a resolver and loads the initial snapshot.
func NewResolver(ctx context.Context, loader Loader) (*Resolver, error) {
	if loader == nil {
		return nil, errors.New("topology: nil loader")
	}
	resolver := &Resolver{loader: loader}
	if err := resolver.Reload(ctx); err != nil {
		return nil, err
	}
	return resolver, nil
}

// Reload replaces the snapshot from the backing resource. The previous
// snapshot stays in place when the load fails.
func (r *Resolver) Reload(ctx context.Context) error {
	if r == nil || r.loader == nil {
		return errors.New("topology: nil resolver")
	}
	assignments, err := r.loader.Load(ctx)
	if err != nil {
		return err
	}
	snapshot := NewSnapshot(assignments)
	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()
	return nil
}

// Snapshot returns the current immutable snapshot.
func (r *Resolver) Snapshot() *Snapshot {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}
