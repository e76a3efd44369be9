package gateway

import (
	"net/http/httptest"
	"testing"
)

func TestETagMatch(t *testing.T) {
	tests := []struct {
		ifNoneMatch string
		etag        string
		want        bool
	}{
		{`"abc123"`, `"abc123"`, true},
		{`abc123`, `"abc123"`, true},
		{`W/"abc123"`, `"abc123"`, true},
		{`"abc123"`, `W/"abc123"`, true},
		{`"abc123"`, `"def456"`, false},
		{`*`, `"abc123"`, true},
		{``, `"abc123"`, false},
		{`"abc123"`, ``, false},
		{``, ``, false},
		// multi-validator lists never produce a 304
		{`"abc123", "def456"`, `"abc123"`, false},
	}
	for _, tt := range tests {
		if got := etagMatch(tt.ifNoneMatch, tt.etag); got != tt.want {
			t.Errorf("etagMatch(%q, %q) = %v, want %v", tt.ifNoneMatch, tt.etag, got, tt.want)
		}
	}
}

func TestNegotiate(t *testing.T) {
	get := httptest.NewRequest("GET", "/latest.json", nil)
	if negotiate(get, `"abc"`) != outcomeFull {
		t.Error("GET without validator should be full")
	}

	head := httptest.NewRequest("HEAD", "/latest.json", nil)
	if negotiate(head, `"abc"`) != outcomeMetadataOnly {
		t.Error("HEAD without validator should be metadata only")
	}

	for _, method := range []string{"GET", "HEAD"} {
		r := httptest.NewRequest(method, "/latest.json", nil)
		r.Header.Set("If-None-Match", `"abc"`)
		if negotiate(r, `"abc"`) != outcomeNotModified {
			t.Errorf("%s with matching validator should be not modified", method)
		}
	}

	// no ETag on the object disables comparison
	noETag := httptest.NewRequest("GET", "/latest.json", nil)
	noETag.Header.Set("If-None-Match", `"abc"`)
	if negotiate(noETag, "") != outcomeFull {
		t.Error("missing object ETag should force a full response")
	}
}
