package topology

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

var testAssignments = []Assignment{
	{ClientName: "acme", Location: "Adelaide", Booth: "Booth A"},
	{ClientName: "acme", Location: "Adelaide", Booth: "Booth B"},
	{ClientName: "globex", Location: "Sydney", Booth: "Booth A"},
	{ClientName: "acme", Location: "Melbourne", Booth: "Booth C"},
	// Duplicate row, must not duplicate enumeration output.
	{ClientName: "globex", Location: "Sydney", Booth: "Booth A"},
}

func TestSnapshotLocations(t *testing.T) {
	snapshot := NewSnapshot(testAssignments)

	all := snapshot.Locations("")
	if !reflect.DeepEqual(all, []string{"Adelaide", "Sydney", "Melbourne"}) {
		t.Fatalf("unexpected locations: %v", all)
	}

	scoped := snapshot.Locations("acme")
	if !reflect.DeepEqual(scoped, []string{"Adelaide", "Melbourne"}) {
		t.Fatalf("unexpected tenant locations: %v", scoped)
	}

	if got := snapshot.Locations("unknown"); got != nil {
		t.Fatalf("expected no locations for unknown tenant, got %v", got)
	}
}

func TestSnapshotBoothsIgnoreTenant(t *testing.T) {
	snapshot := NewSnapshot(testAssignments)
	booths := snapshot.Booths("Adelaide")
	if !reflect.DeepEqual(booths, []string{"Booth A", "Booth B"}) {
		t.Fatalf("unexpected booths: %v", booths)
	}
	if got := snapshot.Booths("Nowhere"); got != nil {
		t.Fatalf("expected no booths for unknown location, got %v", got)
	}
}

func TestSnapshotAllowedBooth(t *testing.T) {
	snapshot := NewSnapshot(testAssignments)
	if !snapshot.AllowedBooth("acme", "Adelaide", "Booth A") {
		t.Fatal("expected acme to access its booth")
	}
	if snapshot.AllowedBooth("globex", "Adelaide", "Booth A") {
		t.Fatal("expected globex to be denied a foreign booth")
	}
	if !snapshot.AllowedBooth("", "Sydney", "Booth A") {
		t.Fatal("expected unscoped access to a known booth")
	}
	if snapshot.AllowedBooth("", "Sydney", "Booth Z") {
		t.Fatal("expected unknown booth to be denied")
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	content := "client_name,location,booth\nacme,Adelaide,Booth A\nglobex,Sydney,Booth B\n,,\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader, err := NewFileLoader(path)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	assignments, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []Assignment{
		{ClientName: "acme", Location: "Adelaide", Booth: "Booth A"},
		{ClientName: "globex", Location: "Sydney", Booth: "Booth B"},
	}
	if !reflect.DeepEqual(assignments, want) {
		t.Fatalf("unexpected assignments: %v", assignments)
	}
}

func TestFileLoaderMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.csv")
	if err := os.WriteFile(path, []byte("location,booth\nAdelaide,Booth A\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	loader, err := NewFileLoader(path)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing client_name column")
	}
}

type failingLoader struct {
	assignments []Assignment
	fail        bool
}

func (l *failingLoader) Load(_ context.Context) ([]Assignment, error) {
	if l.fail {
		return nil, errors.New("boom")
	}
	return l.assignments, nil
}

func TestResolverReloadKeepsSnapshotOnFailure(t *testing.T) {
	loader := &failingLoader{assignments: testAssignments}
	resolver, err := NewResolver(context.Background(), loader)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	loader.fail = true
	if err := resolver.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if got := resolver.Snapshot().Locations(""); len(got) != 3 {
		t.Fatalf("expected previous snapshot to survive failed reload, got %v", got)
	}
}
