package gateway

import (
	"errors"
	"testing"
)

func TestResolveSingletons(t *testing.T) {
	table := DefaultPolicyTable()
	tests := []struct {
		path string
		key  string
		ttl  int
	}{
		{"/latest.json", "latest.json", 60},
		{"/status.json", "status.json", 30},
		{"/windows.json", "windows.json", 3600},
	}
	for _, tt := range tests {
		key, policy, err := table.Resolve(tt.path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.path, err)
		}
		if key != tt.key {
			t.Errorf("Resolve(%q) key = %q, want %q", tt.path, key, tt.key)
		}
		if policy.TTLSeconds != tt.ttl {
			t.Errorf("Resolve(%q) ttl = %d, want %d", tt.path, policy.TTLSeconds, tt.ttl)
		}
		if policy.Immutable {
			t.Errorf("Resolve(%q) must not be immutable", tt.path)
		}
	}
}

func TestResolveVersioned(t *testing.T) {
	table := DefaultPolicyTable()
	key, policy, err := table.Resolve("/gtfs/v20240101/stops.json")
	if err != nil {
		t.Fatal(err)
	}
	if key != "gtfs/v20240101/stops.json" {
		t.Errorf("key = %q", key)
	}
	if !policy.Immutable || policy.TTLSeconds != 31536000 {
		t.Errorf("policy = %+v", policy)
	}
}

func TestResolveDisallowedFile(t *testing.T) {
	table := DefaultPolicyTable()
	_, _, err := table.Resolve("/gtfs/v1/unknown_table.json")
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("err = %v, want ErrInvalidFile", err)
	}
}

func TestResolveUnmatched(t *testing.T) {
	table := DefaultPolicyTable()
	for _, path := range []string{
		"/missing.json",
		"/gtfs/v1/stops.json/extra",
		"/gtfs/v1/Stops.json",    // file must be lowercase
		"/gtfs/v$1/stops.json",   // version charset
		"/gtfs/v1/stops.geojson", // file pattern is [a-z_]+.json
		"/",
	} {
		_, _, err := table.Resolve(path)
		var notFound NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("Resolve(%q) err = %v, want NotFoundError", path, err)
		}
	}
}

func TestResolveNamesAttemptedKey(t *testing.T) {
	_, _, err := DefaultPolicyTable().Resolve("/missing.json")
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatal(err)
	}
	if notFound.Key != "missing.json" {
		t.Errorf("key = %q", notFound.Key)
	}
}

func TestResolveCustomAllowList(t *testing.T) {
	table := DefaultPolicyTableWith([]string{"stops"})
	if _, _, err := table.Resolve("/gtfs/v1/stops.json"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := table.Resolve("/gtfs/v1/routes.json"); !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("err = %v, want ErrInvalidFile", err)
	}
}
