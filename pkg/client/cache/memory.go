package cache

import (
	"context"
	"encoding/json"
	"sync"
)

func marshalJSON(v any) ([]byte, error)     { return json.Marshal(v) }
func unmarshalJSON(raw []byte, v any) error { return json.Unmarshal(raw, v) }

// Memory is an in-process cache used by the fixture gateway and by tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *Memory) Put(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
