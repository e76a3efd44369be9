package cachekey

import "strings"

// Object keys address artifacts in the origin store. The mapping from
// request path to key is a pure function: singleton documents map 1:1
// to their filename, versioned GTFS tables compose under the gtfs/
// namespace. The versioned namespace embeds the snapshot version, so a
// key never denotes two different payloads.

// ForPath derives the object key for a request path.
func ForPath(path string) string {
	return strings.TrimLeft(path, "/")
}

// ForTable derives the object key for a versioned GTFS table file.
func ForTable(version, file string) string {
	return "gtfs/" + version + "/" + file
}
