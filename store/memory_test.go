package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreGet(t *testing.T) {
	m := NewMemStore()
	m.Put("latest.json", `"abc123"`, "application/json", []byte(`{}`))

	obj, found, err := m.Get(context.Background(), "latest.json")
	require.NoError(t, err)
	require.True(t, found)
	body, _ := io.ReadAll(obj.Body)
	require.Equal(t, `{}`, string(body))
	require.Equal(t, `"abc123"`, obj.ETag)
	require.Equal(t, 1, m.Gets())
}

func TestMemStoreFaultIsNotAbsent(t *testing.T) {
	m := NewMemStore()
	m.Put("latest.json", `"abc123"`, "application/json", []byte(`{}`))
	m.Fail(errors.New("backend down"))

	// a fault must never be reported as a missing key
	obj, found, err := m.Get(context.Background(), "latest.json")
	require.Error(t, err)
	require.False(t, found)
	require.Nil(t, obj)
}
