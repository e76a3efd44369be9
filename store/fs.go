package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore serves artifacts from a local directory laid out like the
// bucket: singleton documents at the root, versioned tables under
// gtfs/{version}/. Intended for development against the output
// directory of the feed builder.
//
// The ETag is derived from file mtime and size, so it stays stable
// until the builder rewrites the file.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) Get(_ context.Context, key string) (*Object, bool, error) {
	// keys only ever come from the route table, so no traversal
	// sanitation is needed here
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fs get %q: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, fmt.Errorf("fs stat %q: %w", key, err)
	}
	obj := &Object{
		Body: f,
		ETag: fmt.Sprintf("%q", fmt.Sprintf("%x-%x", info.ModTime().Unix(), info.Size())),
		Size: info.Size(),
	}
	if strings.HasSuffix(key, ".json") {
		obj.ContentType = "application/json; charset=utf-8"
	}
	return obj, true, nil
}
