// Package persistence defines the narrow key-value contract behind which the
// client keeps its single piece of durable state: the bearer token. Writers
// always fully overwrite or fully delete a key; partial updates do not exist
// in this model.
package persistence

import (
	"context"
	"sync"
)

// TokenKey is the single well-known key under which the active session token
// is stored. One key, one active session per profile.
const TokenKey = "authToken"

// KV is the persistence surface consumed by the session store and the API
// client. Get returns the empty string, not an error, when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process KV used by tests and as a fallback when no profile
// database is configured.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the stored value or the empty string.
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

// Set overwrites the value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
