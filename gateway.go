// Package gateway serves versioned GTFS schedule artifacts and the
// refreshed singleton documents from a key-addressed origin store,
// with declarative cache policies, conditional request handling and an
// optional lookaside edge cache.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/transit-edge/gtfs-gateway/edge"
	"github.com/transit-edge/gtfs-gateway/metrics"
	"github.com/transit-edge/gtfs-gateway/store"
)

// HealthPath is the liveness endpoint. It bypasses routing and the
// store entirely.
const HealthPath = "/__health"

const defaultStoreTimeout = 10 * time.Second

type Config struct {
	// Store is the origin blob store (required).
	Store store.Store
	// Edge is the optional lookaside cache.
	Edge *edge.Cache
	// Table is the route table. The default table is used if the
	// zero value is given.
	Table PolicyTable
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
	// Metrics collectors, optional.
	Metrics *metrics.Metrics
	// StoreTimeout bounds each origin read so a hung backend turns
	// into an error response instead of a hung client. Defaults to
	// 10s.
	StoreTimeout time.Duration
}

// Gateway handles all artifact requests. It owns no mutable state:
// every request resolves against the static policy table and reads
// from the shared store and edge cache, both of which are safe under
// concurrent reads.
type Gateway struct {
	store        store.Store
	edge         *edge.Cache
	table        PolicyTable
	log          zerolog.Logger
	metrics      *metrics.Metrics
	storeTimeout time.Duration
}

func New(config Config) *Gateway {
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}
	table := config.Table
	if table.Singletons == nil {
		table = DefaultPolicyTable()
	}
	timeout := config.StoreTimeout
	if timeout == 0 {
		timeout = defaultStoreTimeout
	}
	return &Gateway{
		store:        config.Store,
		edge:         config.Edge,
		table:        table,
		log:          logger,
		metrics:      config.Metrics,
		storeTimeout: timeout,
	}
}

// ServeHTTP implements the http.Handler interface.
func (a *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer a.recover(w, r)
	a.handle(w, r)
}

// recover turns panics in the handler into the 500 path.
func (a *Gateway) recover(w http.ResponseWriter, r *http.Request) {
	if err := recover(); err != nil {
		a.log.WithLevel(zerolog.PanicLevel).Interface("error", err).Msg("Panic in gateway handler")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "internal",
			"detail": fmt.Sprintf("%v", err),
		})
	}
}

func (a *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == HealthPath {
		// liveness must hold even when the store is down
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	if r.Method == http.MethodOptions {
		setCORSHeaders(w.Header())
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		a.writeMethodNotAllowed(w, r)
		return
	}

	key, policy, err := a.table.Resolve(r.URL.Path)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	log := a.log.With().Str("method", r.Method).Str("key", key).Logger()

	if a.edge != nil {
		if res, ok := a.edge.Lookup(key); ok {
			a.sendSnapshot(w, r, res, log)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.storeTimeout)
	defer cancel()
	start := time.Now()
	obj, found, err := a.store.Get(ctx, key)
	a.metrics.OriginGet(time.Since(start))
	if err != nil {
		a.writeError(w, r, StoreError{Err: err})
		return
	}
	if !found {
		a.writeError(w, r, NotFoundError{Key: key})
		return
	}
	defer obj.Body.Close()

	switch negotiate(r, obj.ETag) {
	case outcomeNotModified:
		a.sendNotModified(w, cacheControl(policy), obj.ETag)
		a.metrics.Request(r.Method, metrics.OutcomeNotModified)
		log.Debug().Int("status", http.StatusNotModified).Msg("Not modified")

	case outcomeMetadataOnly:
		assembleHeaders(w.Header(), key, policy, obj.ETag, obj.ContentType, obj.Size)
		w.WriteHeader(http.StatusOK)
		a.metrics.Request(r.Method, metrics.OutcomeMiss)
		log.Debug().Int("status", http.StatusOK).Msg("Metadata only")

	case outcomeFull:
		body, err := io.ReadAll(obj.Body)
		if err != nil {
			a.writeError(w, r, StoreError{Err: err})
			return
		}
		assembleHeaders(w.Header(), key, policy, obj.ETag, obj.ContentType, int64(len(body)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Error().Err(err).Msg("Could not write response body to client")
		}
		a.metrics.Request(r.Method, metrics.OutcomeMiss)
		log.Debug().Int("status", http.StatusOK).Int("bytes", len(body)).Msg("Served from origin")

		// populate the edge cache off the request path (best effort,
		// never awaited)
		if a.edge != nil {
			header := w.Header().Clone()
			go a.edge.Store(key, http.StatusOK, header, body, time.Duration(policy.TTLSeconds)*time.Second)
		}
	}
}

// sendSnapshot serves an edge cache hit, short-circuiting to 304 when
// the request validator matches the snapshot's ETag.
func (a *Gateway) sendSnapshot(w http.ResponseWriter, r *http.Request, res *http.Response, log zerolog.Logger) {
	defer res.Body.Close()
	etag := res.Header.Get("ETag")
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		a.sendNotModified(w, res.Header.Get("Cache-Control"), etag)
		a.metrics.Request(r.Method, metrics.OutcomeNotModified)
		log.Debug().Int("status", http.StatusNotModified).Msg("Not modified (edge)")
		return
	}
	copyHeader(w.Header(), res.Header)
	setCORSHeaders(w.Header())
	w.WriteHeader(res.StatusCode)
	if r.Method != http.MethodHead {
		if _, err := io.Copy(w, res.Body); err != nil {
			log.Error().Err(err).Msg("Could not write response body to client")
		}
	}
	a.metrics.Request(r.Method, metrics.OutcomeHit)
	log.Debug().Int("status", res.StatusCode).Msg("Served from edge cache")
}

func (a *Gateway) sendNotModified(w http.ResponseWriter, cacheControl, etag string) {
	h := w.Header()
	setCORSHeaders(h)
	if cacheControl != "" {
		h.Set("Cache-Control", cacheControl)
	}
	if etag != "" {
		h.Set("ETag", etag)
	}
	w.WriteHeader(http.StatusNotModified)
}

// copyHeader copies the headers from one http.Header to another.
func copyHeader(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Set(name, value)
		}
	}
}
