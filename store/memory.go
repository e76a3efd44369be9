package store

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemStore is an in-memory origin used in tests. Fail makes every Get
// return the given error, simulating an unreachable backend.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	err     error
	gets    int
}

type memObject struct {
	body        []byte
	etag        string
	contentType string
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

func (m *MemStore) Put(key, etag, contentType string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memObject{body: body, etag: etag, contentType: contentType}
}

func (m *MemStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Gets reports how many times Get has been called.
func (m *MemStore) Gets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}

func (m *MemStore) Get(_ context.Context, key string) (*Object, bool, error) {
	m.mu.Lock()
	m.gets++
	err := m.err
	obj, ok := m.objects[key]
	m.mu.Unlock()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return &Object{
		Body:        io.NopCloser(bytes.NewReader(obj.body)),
		ETag:        obj.etag,
		ContentType: obj.contentType,
		Size:        int64(len(obj.body)),
	}, true, nil
}
