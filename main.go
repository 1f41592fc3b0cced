package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	apihttp "booth-monitor/internal/api/http"
	"booth-monitor/internal/auth"
	"booth-monitor/internal/dashboard"
	"booth-monitor/internal/observability/metrics"
	"booth-monitor/internal/source"
	"booth-monitor/internal/thresholds"
	"booth-monitor/internal/topology"
	topologypostgres "booth-monitor/internal/topology/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	loader, closeDB, err := buildTopologyLoader(cfg, logger)
	if err != nil {
		logger.Fatalf("topology loader error: %v", err)
	}
	if closeDB != nil {
		defer closeDB()
	}

	resolver, err := topology.NewResolver(context.Background(), loader)
	if err != nil {
		logger.Fatalf("topology load error: %v", err)
	}

	bands, err := thresholds.Load(cfg.ThresholdsFile)
	if err != nil {
		logger.Fatalf("thresholds error: %v", err)
	}

	local, err := source.NewCSVDir(cfg.DataDir, logger)
	if err != nil {
		logger.Fatalf("data dir error: %v", err)
	}
	routerOpts := []source.RouterOption{source.WithFetchTimeout(cfg.FetchTimeout)}
	if cfg.FeedCredentialsFile != "" {
		creds, err := source.LoadFeedCredentials(cfg.FeedCredentialsFile)
		if err != nil {
			logger.Fatalf("feed credentials error: %v", err)
		}
		feed, err := source.NewFeedClient(creds.BaseURL, creds.Token, creds.Sheet, creds.Worksheet)
		if err != nil {
			logger.Fatalf("feed client error: %v", err)
		}
		routerOpts = append(routerOpts, source.WithLiveFeed(feed, creds.Location, creds.Booth))
		if cfg.SpotlightLocation == "" {
			cfg.SpotlightLocation = creds.Location
			cfg.SpotlightBooth = creds.Booth
		}
	}
	src, err := source.NewRouter(local, logger, routerOpts...)
	if err != nil {
		logger.Fatalf("source router error: %v", err)
	}

	serviceOpts := []dashboard.Option{
		dashboard.WithWorkers(cfg.Workers),
		dashboard.WithLogger(logger),
	}
	if cfg.SpotlightLocation != "" && cfg.SpotlightBooth != "" {
		serviceOpts = append(serviceOpts, dashboard.WithSpotlight(cfg.SpotlightLocation, cfg.SpotlightBooth))
	}
	service, err := dashboard.NewService(resolver, src, bands, serviceOpts...)
	if err != nil {
		logger.Fatalf("dashboard service error: %v", err)
	}

	checker, err := auth.NewBoothChecker(resolver)
	if err != nil {
		logger.Fatalf("booth checker error: %v", err)
	}

	overviewHandler, err := apihttp.NewOverviewHandler(service, logger)
	if err != nil {
		logger.Fatalf("overview handler error: %v", err)
	}
	locationsHandler, err := apihttp.NewLocationsHandler(resolver)
	if err != nil {
		logger.Fatalf("locations handler error: %v", err)
	}
	boothHandler, err := apihttp.NewBoothHandler(service, checker, logger)
	if err != nil {
		logger.Fatalf("booth handler error: %v", err)
	}
	reloadHandler, err := apihttp.NewReloadHandler(resolver, logger)
	if err != nil {
		logger.Fatalf("reload handler error: %v", err)
	}
	exportHandler, err := apihttp.NewExportStatusHandler(service, logger)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	if cfg.TopologyReloadInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.TopologyReloadInterval)
			defer ticker.Stop()
			for range ticker.C {
				if err := resolver.Reload(context.Background()); err != nil {
					logger.Printf("topology reload error: %v", err)
					metrics.IncTopologyReload("error")
					continue
				}
				metrics.IncTopologyReload("")
			}
		}()
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/overview", overviewHandler)
	mux.Handle("/api/v1/locations", locationsHandler)
	mux.Handle("/api/v1/locations/", locationsHandler)
	mux.Handle("/api/v1/booths/", boothHandler)
	mux.Handle("/api/v1/topology/reload", reloadHandler)
	mux.Handle("/api/v1/exports/status.csv", exportHandler)
	mux.Handle("/api/v1/exports/status.xlsx", exportHandler)
	mux.Handle("/api/v1/exports/status.pdf", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	HTTPAddr               string
	DatabaseURL            string
	TopologyFile           string
	DataDir                string
	FeedCredentialsFile    string
	ThresholdsFile         string
	JWTSecret              string
	FetchTimeout           time.Duration
	Workers                int
	SpotlightLocation      string
	SpotlightBooth         string
	TopologyReloadInterval time.Duration
}

func loadConfig() config {
	cfg := config{
		HTTPAddr:               getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:            getenvDefault("DATABASE_URL", ""),
		TopologyFile:           getenvDefault("TOPOLOGY_FILE", "clients.csv"),
		DataDir:                getenvDefault("DATA_DIR", "data"),
		FeedCredentialsFile:    getenvDefault("FEED_CREDENTIALS", ""),
		ThresholdsFile:         getenvDefault("THRESHOLDS_FILE", ""),
		JWTSecret:              getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		FetchTimeout:           getenvDuration("FETCH_TIMEOUT", 5*time.Second),
		Workers:                getenvIntDefault("WORKERS", 8),
		SpotlightLocation:      getenvDefault("SPOTLIGHT_LOCATION", ""),
		SpotlightBooth:         getenvDefault("SPOTLIGHT_BOOTH", ""),
		TopologyReloadInterval: getenvDuration("TOPOLOGY_RELOAD_INTERVAL", 0),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

// buildTopologyLoader reads booth assignments from postgres when
// DATABASE_URL is set, otherwise from the topology CSV file.
func buildTopologyLoader(cfg config, logger *log.Logger) (topology.Loader, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Printf("topology source: postgres")
		return topologypostgres.NewAssignmentRepository(db), func() { db.Close() }, nil
	}
	loader, err := topology.NewFileLoader(cfg.TopologyFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("topology source: %s", cfg.TopologyFile)
	return loader, nil, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
