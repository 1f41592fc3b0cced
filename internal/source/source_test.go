package source

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestResourceKeyStripsWhitespace(t *testing.T) {
	if got := ResourceKey("New York", "Booth A"); got != "NewYork_BoothA" {
		t.Fatalf("unexpected resource key: %s", got)
	}
}

func TestCSVDirFetch(t *testing.T) {
	dir := t.TempDir()
	content := "time,temp_c,co2_ppm\n2026-08-29 10:00:00,21.5,700\n2026-08-29 11:00:00,,not-a-number\n"
	if err := os.WriteFile(filepath.Join(dir, "Adelaide_BoothB.csv"), []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := NewCSVDir(dir, discardLogger())
	if err != nil {
		t.Fatalf("new csv dir: %v", err)
	}
	records, err := src.Fetch(context.Background(), "Adelaide", "Booth B")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["temp_c"] != "21.5" {
		t.Fatalf("unexpected first record: %v", records[0])
	}
	if records[1]["co2_ppm"] != "not-a-number" {
		t.Fatalf("raw records must keep unparsed values, got %v", records[1])
	}
}

func TestCSVDirMissingFileIsAbsent(t *testing.T) {
	src, err := NewCSVDir(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("new csv dir: %v", err)
	}
	records, err := src.Fetch(context.Background(), "Nowhere", "Booth Z")
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected absence, got %v", records)
	}
}

func TestCSVDirMalformedFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	malformed := "time,temp_c\n\"unterminated,21\n"
	if err := os.WriteFile(filepath.Join(dir, "Adelaide_BoothB.csv"), []byte(malformed), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src, err := NewCSVDir(dir, discardLogger())
	if err != nil {
		t.Fatalf("new csv dir: %v", err)
	}
	records, err := src.Fetch(context.Background(), "Adelaide", "Booth B")
	if err != nil {
		t.Fatalf("malformed file must not error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected absence for malformed file, got %v", records)
	}
}

func TestFeedClientRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sheets/SpaceAssessor/worksheets/Adelaide_BoothA/records" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[{"time":"2026-08-29 10:00:00","temp_c":21.5,"pir_state":"active","co2_ppm":null}]}`))
	}))
	defer server.Close()

	client, err := NewFeedClient(server.URL, "secret", "SpaceAssessor", "Adelaide_BoothA")
	if err != nil {
		t.Fatalf("new feed client: %v", err)
	}
	records, err := client.Records(context.Background())
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record["temp_c"] != "21.5" {
		t.Fatalf("expected numeric cell stringified, got %q", record["temp_c"])
	}
	if record["pir_state"] != "active" {
		t.Fatalf("unexpected pir_state: %q", record["pir_state"])
	}
	if record["co2_ppm"] != "" {
		t.Fatalf("expected null cell as empty string, got %q", record["co2_ppm"])
	}
}

func TestFeedClientUnknownWorksheet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewFeedClient(server.URL, "", "SpaceAssessor", "Unknown")
	if err != nil {
		t.Fatalf("new feed client: %v", err)
	}
	if _, err := client.Records(context.Background()); !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestRouterFeedFailureDegradesToAbsence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	feed, err := NewFeedClient(server.URL, "", "SpaceAssessor", "Adelaide_BoothA")
	if err != nil {
		t.Fatalf("new feed client: %v", err)
	}
	local, err := NewCSVDir(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("new csv dir: %v", err)
	}
	router, err := NewRouter(local, discardLogger(), WithLiveFeed(feed, "Adelaide", "Booth A"))
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	records, err := router.Fetch(context.Background(), "Adelaide", "Booth A")
	if err != nil {
		t.Fatalf("feed failure must not error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected absence on feed failure, got %v", records)
	}
}

func TestRouterRoutesOtherBoothsToLocal(t *testing.T) {
	dir := t.TempDir()
	content := "time,temp_c\n2026-08-29 10:00:00,20\n"
	if err := os.WriteFile(filepath.Join(dir, "Sydney_BoothB.csv"), []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	local, err := NewCSVDir(dir, discardLogger())
	if err != nil {
		t.Fatalf("new csv dir: %v", err)
	}
	router, err := NewRouter(local, discardLogger())
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	records, err := router.Fetch(context.Background(), "Sydney", "Booth B")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record from local source, got %d", len(records))
	}
}
