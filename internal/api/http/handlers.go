package apihttp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"booth-monitor/internal/auth"
	"booth-monitor/internal/dashboard"
	"booth-monitor/internal/observability/metrics"
	"booth-monitor/internal/topology"
)

// OverviewHandler serves the topology-wide evaluation result.
type OverviewHandler struct {
	service *dashboard.Service
	logger  *log.Logger
}

// NewOverviewHandler constructs an OverviewHandler.
func NewOverviewHandler(service *dashboard.Service, logger *log.Logger) (*OverviewHandler, error) {
	if service == nil {
		return nil, errors.New("apihttp: nil dashboard service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OverviewHandler{service: service, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/overview.
func (h *OverviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	overview, err := h.service.Overview(r.Context(), auth.TenantScope(r.Context()))
	if err != nil {
		h.logger.Printf("apihttp: overview: %v", err)
		http.Error(w, "overview error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, overview)
}

// LocationsHandler enumerates locations and booths.
type LocationsHandler struct {
	topo *topology.Resolver
}

// NewLocationsHandler constructs a LocationsHandler.
func NewLocationsHandler(topo *topology.Resolver) (*LocationsHandler, error) {
	if topo == nil {
		return nil, errors.New("apihttp: nil topology resolver")
	}
	return &LocationsHandler{topo: topo}, nil
}

// ServeHTTP handles GET /api/v1/locations and
// GET /api/v1/locations/{location}/booths.
func (h *LocationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snapshot := h.topo.Snapshot()
	scope := auth.TenantScope(r.Context())

	if r.URL.Path == "/api/v1/locations" {
		writeJSON(w, map[string]any{"locations": snapshot.Locations(scope)})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/locations/")
	location, ok := strings.CutSuffix(rest, "/booths")
	if !ok {
		http.NotFound(w, r)
		return
	}
	location, err := url.PathUnescape(location)
	if err != nil {
		http.Error(w, "bad location", http.StatusBadRequest)
		return
	}
	if !containsLocation(snapshot.Locations(scope), location) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"location": location,
		"booths":   snapshot.Booths(location),
	})
}

// BoothHandler serves one booth's evaluation detail.
type BoothHandler struct {
	service *dashboard.Service
	checker *auth.BoothChecker
	logger  *log.Logger
}

// NewBoothHandler constructs a BoothHandler.
func NewBoothHandler(service *dashboard.Service, checker *auth.BoothChecker, logger *log.Logger) (*BoothHandler, error) {
	if service == nil {
		return nil, errors.New("apihttp: nil dashboard service")
	}
	if checker == nil {
		return nil, errors.New("apihttp: nil booth checker")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &BoothHandler{service: service, checker: checker, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/booths/{location}/{booth}. A booth with no
// data is a 200 with has_data=false, never an error.
func (h *BoothHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/booths/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.NotFound(w, r)
		return
	}
	location, err := url.PathUnescape(parts[0])
	if err != nil {
		http.Error(w, "bad location", http.StatusBadRequest)
		return
	}
	booth, err := url.PathUnescape(parts[1])
	if err != nil {
		http.Error(w, "bad booth", http.StatusBadRequest)
		return
	}

	if err := h.checker.EnsureBoothAccess(r.Context(), location, booth); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, auth.ErrAccessDenied):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			h.logger.Printf("apihttp: booth access: %v", err)
			http.Error(w, "access check error", http.StatusInternalServerError)
		}
		return
	}

	detail, err := h.service.Booth(r.Context(), location, booth)
	if err != nil {
		if errors.Is(err, dashboard.ErrBoothNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Printf("apihttp: booth %s/%s: %v", location, booth, err)
		http.Error(w, "booth error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, detail)
}

// ReloadHandler triggers a topology snapshot reload.
type ReloadHandler struct {
	topo   *topology.Resolver
	logger *log.Logger
}

// NewReloadHandler constructs a ReloadHandler.
func NewReloadHandler(topo *topology.Resolver, logger *log.Logger) (*ReloadHandler, error) {
	if topo == nil {
		return nil, errors.New("apihttp: nil topology resolver")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ReloadHandler{topo: topo, logger: logger}, nil
}

// ServeHTTP handles POST /api/v1/topology/reload.
func (h *ReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.topo.Reload(r.Context()); err != nil {
		metrics.IncTopologyReload("error")
		h.logger.Printf("apihttp: topology reload: %v", err)
		http.Error(w, "reload error", http.StatusInternalServerError)
		return
	}
	metrics.IncTopologyReload("")
	writeJSON(w, map[string]string{"status": "reloaded"})
}

func containsLocation(locations []string, location string) bool {
	for _, known := range locations {
		if known == location {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
