package gateway

import (
	"regexp"
	"strings"

	cachekey "github.com/transit-edge/gtfs-gateway/pkg/cache-key"
)

// CachePolicy controls the Cache-Control header written for a route
// and therefore how long any cache in front of the gateway may keep
// the response. Policies are defined once per route and never change
// for the lifetime of the process.
type CachePolicy struct {
	TTLSeconds int
	// Immutable asserts the payload behind a key never changes.
	// Only safe for routes whose keys embed a version segment.
	Immutable bool
	// AllowedFiles restricts the {file} segment of a pattern route,
	// keyed by table name without the .json suffix. Nil means no
	// restriction.
	AllowedFiles map[string]bool
}

// DefaultTables lists the GTFS table files the feed builder emits.
var DefaultTables = []string{
	"stops", "routes", "trips", "stop_times", "calendar", "calendar_dates", "agencies",
}

var versionedPattern = regexp.MustCompile(`^/gtfs/([A-Za-z0-9-]+)/([a-z_]+\.json)$`)

// PolicyTable is the declarative route table: path pattern to cache
// policy. It is independent of any HTTP transport so it can be unit
// tested on its own.
type PolicyTable struct {
	// Singletons are exact-match routes for the mutable documents.
	Singletons map[string]CachePolicy
	// Versioned is the policy for /gtfs/{version}/{file}.
	Versioned CachePolicy
}

// DefaultPolicyTable returns the route table for the artifacts the
// ingestion pipeline produces. The singleton documents get short TTLs
// since the pipeline rewrites them in place; versioned tables are
// immutable for a year.
func DefaultPolicyTable() PolicyTable {
	return DefaultPolicyTableWith(DefaultTables)
}

// DefaultPolicyTableWith is DefaultPolicyTable with a custom table
// allow-list.
func DefaultPolicyTableWith(tables []string) PolicyTable {
	allowed := make(map[string]bool, len(tables))
	for _, t := range tables {
		allowed[t] = true
	}
	return PolicyTable{
		Singletons: map[string]CachePolicy{
			"/latest.json":  {TTLSeconds: 60},
			"/status.json":  {TTLSeconds: 30},
			"/windows.json": {TTLSeconds: 3600},
		},
		Versioned: CachePolicy{
			TTLSeconds:   31536000,
			Immutable:    true,
			AllowedFiles: allowed,
		},
	}
}

// Resolve maps a request path to its object key and cache policy.
// Unknown paths yield a NotFoundError naming the attempted key; a
// table file outside the allow-list yields ErrInvalidFile. The two are
// distinct on purpose: 400 means "this version exists but that is not
// a table", 404 means "no such route".
func (t PolicyTable) Resolve(path string) (string, CachePolicy, error) {
	if policy, ok := t.Singletons[path]; ok {
		return cachekey.ForPath(path), policy, nil
	}
	if m := versionedPattern.FindStringSubmatch(path); m != nil {
		version, file := m[1], m[2]
		if t.Versioned.AllowedFiles != nil && !t.Versioned.AllowedFiles[strings.TrimSuffix(file, ".json")] {
			return "", CachePolicy{}, ErrInvalidFile
		}
		return cachekey.ForTable(version, file), t.Versioned, nil
	}
	return "", CachePolicy{}, NotFoundError{Key: cachekey.ForPath(path)}
}
