package boltkv

import (
	"path/filepath"
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"subclip/store"
)

var _ store.KV = &Store{}

func open(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	assert := assert_.New(t)
	s := open(t, filepath.Join(t.TempDir(), "test.db"))

	_, found, err := s.Get("missing")
	assert.NoError(err)
	assert.False(found)

	assert.NoError(s.Put("key", []byte("value")))
	value, found, err := s.Get("key")
	assert.NoError(err)
	assert.True(found)
	assert.Equal([]byte("value"), value)

	assert.NoError(s.Delete("key"))
	_, found, err = s.Get("key")
	assert.NoError(err)
	assert.False(found)

	// Deleting an absent key succeeds
	assert.NoError(s.Delete("key"))
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	assert := assert_.New(t)
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(path)
	assert.NoError(err)
	assert.NoError(first.Put("key", []byte("value")))
	assert.NoError(first.Close())

	second := open(t, path)
	value, found, err := second.Get("key")
	assert.NoError(err)
	assert.True(found)
	assert.Equal([]byte("value"), value)
}
