package dashboard

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"booth-monitor/internal/alerts"
	"booth-monitor/internal/history"
	"booth-monitor/internal/liveness"
	"booth-monitor/internal/observability/metrics"
	readings "booth-monitor/internal/readings/domain"
	"booth-monitor/internal/source"
	"booth-monitor/internal/thresholds"
	"booth-monitor/internal/topology"
)

const defaultWorkers = 8

// ErrBoothNotFound marks a booth that is not present in the topology.
// It surfaces to the caller as a not-found condition rather than "no data".
var ErrBoothNotFound = errors.New("dashboard: booth not found in topology")

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Service runs per-booth evaluation cycles over the topology.
type Service struct {
	topo    *topology.Resolver
	source  source.Source
	bands   thresholds.Bands
	clock   Clock
	logger  *log.Logger
	workers int

	spotLocation string
	spotBooth    string
}

// Option customizes the service.
type Option func(*Service)

// WithClock assigns a clock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithWorkers bounds the per-cycle worker pool.
func WithWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithSpotlight designates the booth whose KPI series the overview carries.
func WithSpotlight(location, booth string) Option {
	return func(s *Service) {
		s.spotLocation = location
		s.spotBooth = booth
	}
}

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the dashboard service.
func NewService(topo *topology.Resolver, src source.Source, bands thresholds.Bands, opts ...Option) (*Service, error) {
	if topo == nil {
		return nil, errors.New("dashboard: nil topology resolver")
	}
	if src == nil {
		return nil, errors.New("dashboard: nil record source")
	}
	if bands == nil {
		bands = thresholds.Defaults()
	}
	service := &Service{
		topo:    topo,
		source:  src,
		bands:   bands,
		clock:   systemClock{},
		logger:  log.Default(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Overview is the topology-wide evaluation result handed to presentation.
type Overview struct {
	Locations []string                   `json:"locations"`
	Summaries map[string]int             `json:"location_summaries"`
	Alerts    []alerts.Event             `json:"alerts"`
	Liveness  []liveness.Status          `json:"liveness"`
	KPI       *KPISeries                 `json:"kpi_series,omitempty"`
	Bands     map[string]thresholds.Band `json:"thresholds"`
}

// BoothDetail is the per-booth evaluation result.
type BoothDetail struct {
	Location   string                     `json:"location"`
	Booth      string                     `json:"booth"`
	HasData    bool                       `json:"has_data"`
	Reading    *readings.Reading          `json:"reading,omitempty"`
	Historical map[string]history.Delta   `json:"historical_delta"`
	Thresholds map[string]thresholds.Band `json:"thresholds"`
}

type boothResult struct {
	location string
	booth    string
	events   []alerts.Event
	status   liveness.Status
	hasData  bool
	sequence []readings.Reading
}

// Overview evaluates every booth visible to the tenant. Booths are
// independent tasks on a bounded pool; one booth's missing or malformed
// source never blocks its siblings. An empty tenant sees all locations.
func (s *Service) Overview(ctx context.Context, tenant string) (*Overview, error) {
	if s == nil {
		return nil, errors.New("dashboard: nil service")
	}
	started := s.clock.Now()
	snapshot := s.topo.Snapshot()
	locations := snapshot.Locations(tenant)

	type task struct {
		location string
		booth    string
	}
	var tasks []task
	for _, location := range locations {
		for _, booth := range snapshot.Booths(location) {
			tasks = append(tasks, task{location: location, booth: booth})
		}
	}

	results := make([]boothResult, len(tasks))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i, item := range tasks {
		wg.Add(1)
		go func(i int, item task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = s.evaluateBooth(ctx, item.location, item.booth)
		}(i, item)
	}
	wg.Wait()

	overview := &Overview{
		Locations: locations,
		Summaries: map[string]int{},
		Bands:     s.bands,
	}
	for _, location := range locations {
		overview.Summaries[location] = 0
	}

	noData := 0
	for _, result := range results {
		if len(result.events) > 0 {
			overview.Summaries[result.location]++
		}
		overview.Alerts = append(overview.Alerts, result.events...)
		overview.Liveness = append(overview.Liveness, result.status)
		if !result.hasData {
			noData++
		}
		for _, event := range result.events {
			metrics.IncAlert(string(event.Kind))
		}
		if s.isSpotlight(result.location, result.booth) {
			overview.KPI = buildKPISeries(result.sequence)
		}
	}

	metrics.ObserveCycle("", s.clock.Now().Sub(started), noData)
	return overview, nil
}

// Booth evaluates one booth: latest reading, historical deltas and the
// display threshold bands. Unknown booths return ErrBoothNotFound.
func (s *Service) Booth(ctx context.Context, location, booth string) (*BoothDetail, error) {
	if s == nil {
		return nil, errors.New("dashboard: nil service")
	}
	snapshot := s.topo.Snapshot()
	if !snapshot.HasBooth(location, booth) {
		return nil, ErrBoothNotFound
	}

	sequence := s.fetchSequence(ctx, location, booth)
	detail := &BoothDetail{
		Location:   location,
		Booth:      booth,
		HasData:    len(sequence) > 0,
		Historical: map[string]history.Delta{},
		Thresholds: s.bands,
	}
	if latest := readings.Latest(sequence); latest != nil {
		detail.Reading = latest
	}
	if detail.HasData {
		detail.Historical = history.Evaluate(sequence, s.clock.Now())
	}
	return detail, nil
}

// evaluateBooth owns the booth's whole fetch-normalize-evaluate pass.
// Alerts and liveness are computed from this booth's own latest reading,
// never from state carried across booths.
func (s *Service) evaluateBooth(ctx context.Context, location, booth string) boothResult {
	now := s.clock.Now()
	sequence := s.fetchSequence(ctx, location, booth)
	latest := readings.Latest(sequence)
	return boothResult{
		location: location,
		booth:    booth,
		events:   alerts.Evaluate(location, booth, latest),
		status:   liveness.Evaluate(location, booth, latest, now),
		hasData:  len(sequence) > 0,
		sequence: sequence,
	}
}

func (s *Service) fetchSequence(ctx context.Context, location, booth string) []readings.Reading {
	started := time.Now()
	raw, err := s.source.Fetch(ctx, location, booth)
	duration := time.Since(started)
	if err != nil {
		s.logger.Printf("dashboard: fetch %s/%s: %v", location, booth, err)
		metrics.ObserveFetch(metrics.ResultAbsent, duration)
		return nil
	}
	if len(raw) == 0 {
		metrics.ObserveFetch(metrics.ResultAbsent, duration)
		return nil
	}
	metrics.ObserveFetch("", duration)
	return readings.Normalize(raw)
}

func (s *Service) isSpotlight(location, booth string) bool {
	if s.spotLocation == "" || s.spotBooth == "" {
		return false
	}
	return location == s.spotLocation && booth == s.spotBooth
}
