package gateway

import "testing"

func TestCacheControl(t *testing.T) {
	if got := cacheControl(CachePolicy{TTLSeconds: 60}); got != "public, max-age=60" {
		t.Errorf("cacheControl = %q", got)
	}
	if got := cacheControl(CachePolicy{TTLSeconds: 31536000, Immutable: true}); got != "public, max-age=31536000, immutable" {
		t.Errorf("cacheControl = %q", got)
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		key      string
		declared string
		want     string
	}{
		{"latest.json", "application/json", "application/json"},
		{"latest.json", "", "application/json; charset=utf-8"},
		{"gtfs/v1/stops.json", "", "application/json; charset=utf-8"},
		{"blob.bin", "", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentTypeFor(tt.key, tt.declared); got != tt.want {
			t.Errorf("contentTypeFor(%q, %q) = %q, want %q", tt.key, tt.declared, got, tt.want)
		}
	}
}
