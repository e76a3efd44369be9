// Package edge implements the optional lookaside cache in front of the
// origin store. Entries are full response snapshots keyed by object
// key; a hit serves the snapshot without contacting the origin at all.
// The cache is purely an optimization: every failure degrades to a
// miss and the caller falls through to the origin.
package edge

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Cache is the lookaside accessor used by the gateway.
type Cache struct {
	provider Provider
	log      zerolog.Logger
}

func New(provider Provider, logger zerolog.Logger) *Cache {
	return &Cache{provider: provider, log: logger}
}

// Lookup returns the cached response snapshot for the given key.
// Provider errors are logged and reported as a miss.
func (c *Cache) Lookup(key string) (*http.Response, bool) {
	b, ok, err := c.provider.Get(key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Edge cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	res, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b)), nil)
	if err != nil {
		// a snapshot that no longer parses is useless, drop it
		c.log.Warn().Err(err).Str("key", key).Msg("Dropping unreadable edge cache entry")
		c.provider.Purge(key)
		return nil, false
	}
	return res, true
}

// Store snapshots a computed response and writes it to the provider
// with an expiry matching the response's cache lifetime. It is meant
// to be called in a goroutine off the request path; failures are
// logged and swallowed.
func (c *Cache) Store(key string, status int, header http.Header, body []byte, ttl time.Duration) {
	res := &http.Response{
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
	buf := &bytes.Buffer{}
	if err := res.Write(buf); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Could not serialize response for edge cache")
		return
	}
	if err := c.provider.Put(key, time.Now().Add(ttl), buf.Bytes()); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Could not write edge cache entry")
		return
	}
	c.log.Trace().Str("key", key).Dur("ttl", ttl).Msg("Stored edge cache entry")
}
