package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/transit-edge/gtfs-gateway/metrics"
)

// Every response the gateway produces, errors included, carries the
// full CORS set so browser clients can read the structured body and
// branch on status code.
func setCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "If-None-Match, Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
}

// cacheControl renders the Cache-Control value for a policy.
func cacheControl(policy CachePolicy) string {
	v := fmt.Sprintf("public, max-age=%d", policy.TTLSeconds)
	if policy.Immutable {
		v += ", immutable"
	}
	return v
}

// contentTypeFor picks the Content-Type for an object: the declared
// type wins, JSON keys fall back to JSON, everything else is an octet
// stream.
func contentTypeFor(key, declared string) string {
	if declared != "" {
		return declared
	}
	if strings.HasSuffix(key, ".json") {
		return "application/json; charset=utf-8"
	}
	return "application/octet-stream"
}

// assembleHeaders writes the common headers for an object response.
// The ETag is echoed verbatim, never rewritten.
func assembleHeaders(h http.Header, key string, policy CachePolicy, etag, declaredType string, size int64) {
	setCORSHeaders(h)
	h.Set("Content-Type", contentTypeFor(key, declaredType))
	h.Set("Cache-Control", cacheControl(policy))
	if etag != "" {
		h.Set("ETag", etag)
	}
	if size >= 0 {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	setCORSHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto structured HTTP responses.
// The detail field carries the fault's message, never internals beyond
// that.
func (a *Gateway) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound NotFoundError
	switch {
	case errors.As(err, &notFound):
		a.metrics.Request(r.Method, metrics.OutcomeNotFound)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "not found",
			"key":   notFound.Key,
		})
	case errors.Is(err, ErrInvalidFile):
		a.metrics.Request(r.Method, metrics.OutcomeInvalidFile)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid file",
		})
	default:
		a.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		a.metrics.Request(r.Method, metrics.OutcomeError)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "internal",
			"detail": err.Error(),
		})
	}
}

func (a *Gateway) writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, HEAD, OPTIONS")
	a.metrics.Request(r.Method, metrics.OutcomeError)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
