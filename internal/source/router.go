package source

import (
	"context"
	"errors"
	"log"
	"time"

	readings "booth-monitor/internal/readings/domain"
)

const defaultFetchTimeout = 5 * time.Second

// Router directs one designated booth to the remote live feed and every
// other booth to the local CSV directory. Feed failures degrade to
// absence so one booth's outage never fails the evaluation cycle.
type Router struct {
	local        *CSVDir
	feed         *FeedClient
	feedLocation string
	feedBooth    string
	timeout      time.Duration
	logger       *log.Logger
}

// RouterOption configures the router.
type RouterOption func(*Router)

// WithFetchTimeout overrides the per-fetch timeout.
func WithFetchTimeout(timeout time.Duration) RouterOption {
	return func(r *Router) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLiveFeed designates the booth served by the remote feed.
func WithLiveFeed(feed *FeedClient, location, booth string) RouterOption {
	return func(r *Router) {
		r.feed = feed
		r.feedLocation = location
		r.feedBooth = booth
	}
}

// NewRouter constructs a router over the local source.
func NewRouter(local *CSVDir, logger *log.Logger, opts ...RouterOption) (*Router, error) {
	if local == nil {
		return nil, errors.New("source: nil local source")
	}
	if logger == nil {
		logger = log.Default()
	}
	router := &Router{local: local, timeout: defaultFetchTimeout, logger: logger}
	for _, opt := range opts {
		opt(router)
	}
	return router, nil
}

// Fetch resolves the booth's records. The live feed applies the per-fetch
// timeout and treats timeout, unreachability and uninitialized feeds all
// as absence.
func (r *Router) Fetch(ctx context.Context, location, booth string) ([]readings.RawRecord, error) {
	if r == nil {
		return nil, errors.New("source: nil router")
	}
	if r.isLiveBooth(location, booth) {
		fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		records, err := r.feed.Records(fetchCtx)
		if err != nil {
			r.logger.Printf("source: live feed %s/%s: %v", location, booth, err)
			return nil, nil
		}
		return records, nil
	}
	return r.local.Fetch(ctx, location, booth)
}

func (r *Router) isLiveBooth(location, booth string) bool {
	if r.feed == nil {
		return false
	}
	return stripSpaces(location) == stripSpaces(r.feedLocation) &&
		stripSpaces(booth) == stripSpaces(r.feedBooth)
}
