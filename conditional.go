package gateway

import (
	"net/http"
	"strings"
)

// Conditional request negotiation. ETags are opaque: the only
// operation ever performed on them is byte-for-byte equality after
// normalization.

type outcome int

const (
	// outcomeFull sends headers and body.
	outcomeFull outcome = iota
	// outcomeMetadataOnly sends the same headers as outcomeFull with
	// the body omitted (HEAD).
	outcomeMetadataOnly
	// outcomeNotModified sends a 304 with no body regardless of
	// method.
	outcomeNotModified
)

// normalizeETag strips a weak-validator marker and surrounding quotes.
func normalizeETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}

// etagMatch reports whether the request's If-None-Match matches the
// object's ETag. Absence of a validator on either side disables the
// comparison. "*" matches any existing object. Lists of multiple
// validators are treated as no-match: a full response is always a
// correct answer, a false 304 never is.
func etagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	if strings.Contains(ifNoneMatch, ",") {
		return false
	}
	return normalizeETag(ifNoneMatch) == normalizeETag(etag)
}

// negotiate decides the response outcome for an existing object.
func negotiate(r *http.Request, etag string) outcome {
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		return outcomeNotModified
	}
	if r.Method == http.MethodHead {
		return outcomeMetadataOnly
	}
	return outcomeFull
}
