// Package store defines the persistence collaborators of the acquisition
// pipeline: a string key-value configuration store and typed settings on top
// of it. The mobile shell supplies its own implementations; internal/boltkv
// provides the local one used by tests and the dev CLI.
package store

import (
	"subclip/internal/sync_"
)

// KV is simple keyed persistence. Implementations must make single-key
// operations atomic; no other locking is assumed by callers.
type KV interface {
	// Get returns the value for key, with found=false when the key is absent.
	Get(key string) (value []byte, found bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Memory is an in-process KV, used in tests and as a fallback when no
// persistent store is configured.
type Memory struct {
	values *sync_.RWMutexed[map[string][]byte]
}

func NewMemory() *Memory {
	return &Memory{values: sync_.NewRWMutexed(make(map[string][]byte))}
}

func (m *Memory) Get(key string) (value []byte, found bool, err error) {
	_ = m.values.RLocked(func(values map[string][]byte) error {
		if stored, ok := values[key]; ok {
			value = make([]byte, len(stored))
			copy(value, stored)
			found = true
		}
		return nil
	})
	return value, found, nil
}

func (m *Memory) Put(key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)
	return m.values.Locked(func(values map[string][]byte) error {
		values[key] = copied
		return nil
	})
}

func (m *Memory) Delete(key string) error {
	return m.values.Locked(func(values map[string][]byte) error {
		delete(values, key)
		return nil
	})
}
